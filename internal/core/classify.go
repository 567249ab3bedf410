package core

import "strings"

// Keyword fallbacks used when no provider synonym matches a header.
var (
	dateKeywords     = []string{"date", "time"}
	amountKeywords   = []string{"amount", "total", "price", "debit", "credit"}
	merchantKeywords = []string{"merchant", "vendor", "description", "payee"}
)

// ClassifyField assigns a FieldKind to a single header.
//
// Exact synonym matches against the provider are tried first, in the order
// date, amount, merchant, category, reference. Otherwise the lower-cased
// header is searched for generic keywords.
func ClassifyField(header string, p CardProvider) FieldKind {
	lower := strings.ToLower(strings.TrimSpace(header))

	switch {
	case hasSynonym(p.DateColumns, lower):
		return KindDate
	case hasSynonym(p.AmountColumns, lower):
		return KindAmount
	case hasSynonym(p.MerchantColumns, lower):
		return KindMerchant
	case hasSynonym(p.CategoryColumns, lower):
		return KindCategory
	case hasSynonym(p.ReferenceColumns, lower):
		return KindReference
	}

	switch {
	case containsAny(lower, dateKeywords):
		return KindDate
	case containsAny(lower, amountKeywords):
		return KindAmount
	case containsAny(lower, merchantKeywords):
		return KindMerchant
	}

	return KindOther
}

// ClassifyHeaders classifies every header once, preserving header order.
func ClassifyHeaders(headers []string, p CardProvider) []FieldKind {
	kinds := make([]FieldKind, len(headers))
	for i, h := range headers {
		kinds[i] = ClassifyField(h, p)
	}
	return kinds
}

func hasSynonym(synonyms []string, lower string) bool {
	for _, s := range synonyms {
		if strings.ToLower(s) == lower {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
