package core

import "testing"

func TestClassifyField(t *testing.T) {
	r := DefaultRegistry()
	amex, _ := r.Get("amex")
	stripe, _ := r.Get("stripe")

	tests := []struct {
		name     string
		header   string
		provider CardProvider
		want     FieldKind
	}{
		{"date synonym", "Date", amex, KindDate},
		{"amount synonym", "Charge Amount", amex, KindAmount},
		{"merchant synonym", "Description", amex, KindMerchant},
		{"category synonym", "Expense Category", amex, KindCategory},
		{"reference synonym", "Ref #", amex, KindReference},
		{"synonym is trimmed", "  Posted Date  ", amex, KindDate},
		{"provider specific synonym", "merchant_name", stripe, KindMerchant},
		{"provider specific date", "created_at", stripe, KindDate},
		{"keyword date", "Transaction Time", amex, KindDate},
		{"keyword amount", "Total Cost", amex, KindAmount},
		{"keyword merchant", "Vendor Name", amex, KindMerchant},
		{"date keyword beats amount keyword", "Credit Date", amex, KindDate},
		{"keyword is substring match", "Last Updated", amex, KindDate},
		{"unknown column", "Card Member", amex, KindOther},
		{"empty header", "", amex, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyField(tt.header, tt.provider); got != tt.want {
				t.Errorf("ClassifyField(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestClassifyField_SynonymPriority(t *testing.T) {
	p := CardProvider{
		ID:            "overlap",
		DateColumns:   []string{"posted"},
		AmountColumns: []string{"posted", "value"},
		CategoryColumns: []string{
			"value",
		},
	}

	if got := ClassifyField("posted", p); got != KindDate {
		t.Errorf("ClassifyField(posted) = %q, want date before amount", got)
	}
	if got := ClassifyField("value", p); got != KindAmount {
		t.Errorf("ClassifyField(value) = %q, want amount before category", got)
	}
}

func TestClassifyHeaders(t *testing.T) {
	generic := DefaultRegistry().Generic()
	headers := []string{"Date", "Amount", "Description", "Category", "Reference", "Notes"}

	got := ClassifyHeaders(headers, generic)
	want := []FieldKind{KindDate, KindAmount, KindMerchant, KindCategory, KindReference, KindOther}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kind[%d] (%s) = %q, want %q", i, headers[i], got[i], want[i])
		}
	}
}
