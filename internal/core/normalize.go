package core

// normalize.go provides the three cell normalizers.
//
// Each normalizer is a pure function of its input (plus, for merchants, the
// provider's pattern table), so they are safe to call from any goroutine:
//   - NormalizeDate: eight fixed layouts to YYYY-MM-DD
//   - NormalizeAmount: currency symbols, separators and accounting negatives to 0.00
//   - NormalizeMerchant: known processor prefixes to canonical names, all-caps to title case
//
// A normalizer never reports failure. When nothing applies the cleaned input
// is returned unchanged and validation decides whether that is an error.

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule descriptions recorded in the validation report.
const (
	AmountRule          = "Removed currency symbols, standardized decimals"
	MerchantPatternRule = "Matched known merchant pattern"
	MerchantTitleRule   = "Converted all-caps name to title case"
)

// TwoDigitYearPivot splits two-digit years: values above it are 19xx, the rest 20xx.
const TwoDigitYearPivot = 50

// datePattern is one accepted input layout.
type datePattern struct {
	format string
	regex  *regexp.Regexp
	parse  func(m []string) (year, month, day string)
}

// datePatterns are tried in order; the first match wins.
var datePatterns = []datePattern{
	{"MM/DD/YYYY", regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), monthDayYear},
	{"MM-DD-YYYY", regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), monthDayYear},
	{"YYYY-MM-DD", regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), yearMonthDay},
	{"YYYY/MM/DD", regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`), yearMonthDay},
	{"MM/DD/YY", regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), monthDayShortYear},
	{"MM-DD-YY", regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`), monthDayShortYear},
	{"DD.MM.YYYY", regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`), dayMonthYear},
	{"YYYYMMDD", regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`), yearMonthDay},
}

// isoDateRegex is the only shape a date column may have after normalization.
var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// europeanDecimalRegex matches a comma used as the decimal separator.
var europeanDecimalRegex = regexp.MustCompile(`^-?\d+,\d{2}$`)

// currencySymbols are stripped from amounts before parsing.
var currencySymbols = strings.NewReplacer(
	"$", "",
	"€", "", // Euro
	"£", "", // Pound
	"¥", "", // Yen
	"₹", "", // Rupee
	"₩", "", // Won
	"₽", "", // Ruble
)

func monthDayYear(m []string) (string, string, string) { return m[3], m[1], m[2] }
func yearMonthDay(m []string) (string, string, string) { return m[1], m[2], m[3] }
func dayMonthYear(m []string) (string, string, string) { return m[3], m[2], m[1] }

func monthDayShortYear(m []string) (string, string, string) {
	return expandYear(m[3]), m[1], m[2]
}

// expandYear maps a two-digit year onto 19xx or 20xx around TwoDigitYearPivot.
func expandYear(yy string) string {
	n := int(yy[0]-'0')*10 + int(yy[1]-'0')
	if n > TwoDigitYearPivot {
		return "19" + yy
	}
	return "20" + yy
}

// NormalizeDate converts a date in any supported layout to YYYY-MM-DD.
// Month and day are zero-padded but not range-checked.
func NormalizeDate(value string) NormalizationOutcome {
	trimmed := strings.TrimSpace(value)

	for _, p := range datePatterns {
		m := p.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		year, month, day := p.parse(m)
		normalized := fmt.Sprintf("%s-%s-%s", year, padTwo(month), padTwo(day))
		return NormalizationOutcome{
			Value:   normalized,
			Changed: normalized != trimmed,
			Rule:    fmt.Sprintf("Converted from %s to ISO format", p.format),
			Format:  p.format,
		}
	}

	return NormalizationOutcome{Value: trimmed}
}

// IsISODate reports whether s is exactly YYYY-MM-DD shaped.
func IsISODate(s string) bool {
	return isoDateRegex.MatchString(s)
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// NormalizeAmount converts a monetary string to a plain number with two decimals.
//
// Currency symbols and whitespace are removed, "(x)" becomes "-x", a single
// comma followed by exactly two digits is read as a decimal point, and any
// remaining commas are thousands separators. Half-way values round away from zero.
func NormalizeAmount(value string) NormalizationOutcome {
	trimmed := strings.TrimSpace(value)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, currencySymbols.Replace(trimmed))

	if len(cleaned) >= 2 && strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	if europeanDecimalRegex.MatchString(cleaned) {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return NormalizationOutcome{Value: trimmed}
	}

	normalized := d.StringFixed(2)
	return NormalizationOutcome{
		Value:   normalized,
		Changed: normalized != trimmed,
		Rule:    AmountRule,
	}
}

// IsValidAmount reports whether s parses as a decimal number.
func IsValidAmount(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

// NormalizeMerchant cleans a merchant name.
//
// Whitespace runs collapse to one space. The provider's patterns are tried
// first, then CommonMerchantPatterns; the first match replaces the whole
// value. Failing that, an all-caps name longer than three characters is
// title-cased. Both rewrites count as a fix even when the result equals the
// input; collapsing whitespace alone does not.
func NormalizeMerchant(value string, providerPatterns []MerchantPattern) NormalizationOutcome {
	collapsed := strings.Join(strings.Fields(value), " ")
	upper := strings.ToUpper(collapsed)

	for _, table := range [][]MerchantPattern{providerPatterns, CommonMerchantPatterns} {
		if replacement, ok := matchMerchant(upper, table); ok {
			return NormalizationOutcome{Value: replacement, Changed: true, Rule: MerchantPatternRule}
		}
	}

	if collapsed == upper && utf8.RuneCountInString(collapsed) > 3 {
		titled := cases.Title(language.English).String(strings.ToLower(collapsed))
		return NormalizationOutcome{Value: titled, Changed: true, Rule: MerchantTitleRule}
	}

	return NormalizationOutcome{Value: collapsed}
}

// matchMerchant returns the replacement of the first pattern that upper
// contains. A '*' in a pattern also matches a name that starts with the
// pattern minus its '*' (e.g. "UBER*" matches "UBER BV").
func matchMerchant(upper string, patterns []MerchantPattern) (string, bool) {
	for _, p := range patterns {
		if strings.Contains(upper, p.Pattern) {
			return p.Replacement, true
		}
		if strings.Contains(p.Pattern, "*") {
			prefix := strings.Replace(p.Pattern, "*", "", 1)
			if prefix != "" && strings.HasPrefix(upper, prefix) {
				return p.Replacement, true
			}
		}
	}
	return "", false
}
