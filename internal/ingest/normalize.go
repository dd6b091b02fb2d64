package ingest

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/nestegg/nestegg/internal/domain"
)

// rawRow is the pre-normalization field set a detector extracts from one
// input row. All values are still free text.
type rawRow struct {
	line     int
	raw      string
	date     string
	activity string
	fund     string
	source   string
	units    string
	price    string
	amount   string
}

// normalizeRow applies the normalization rules shared by all formats and
// produces a canonical transaction, or a RowError when the row is evidence
// of a non-data line (report footer, subtotal, blank fund).
func normalizeRow(r rawRow) (domain.Transaction, *RowError) {
	date, ok := normalizeDate(r.date)
	if !ok {
		return domain.Transaction{}, &RowError{Line: r.line, Reason: ReasonBadDate, Raw: r.raw}
	}

	fund := strings.TrimSpace(r.fund)
	if fund == "" {
		return domain.Transaction{}, &RowError{Line: r.line, Reason: ReasonMissingFund, Raw: r.raw}
	}

	source := strings.TrimSpace(r.source)
	if source == "" {
		source = domain.DefaultMoneySource
	}

	units := parseNumber(r.units)
	price := parseNumber(r.price)
	amount := parseNumber(r.amount)

	activity := normalizeActivity(r.activity, amount)

	// Transfers dictate the unit direction outright; otherwise the amount
	// sign wins whenever the two disagree.
	switch {
	case activity == "Transfer Out":
		units = -abs(units)
	case activity == "Transfer In":
		units = abs(units)
	case units != 0 && amount != 0 && (units > 0) != (amount > 0):
		units = -units
	}

	return domain.Transaction{
		Date:        date,
		Activity:    activity,
		Fund:        fund,
		MoneySource: source,
		Units:       units,
		UnitPrice:   price,
		Amount:      amount,
	}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// normalizeDate parses a date token in any accepted format and renders it
// as YYYY-MM-DD. The calendar day is all that survives.
func normalizeDate(tok string) (string, bool) {
	tok = strings.TrimSpace(strings.Trim(strings.TrimSpace(tok), `",`))
	if tok == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, tok); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// isDateToken reports whether the token is nothing but a date. Some
// sources wrap the date onto its own line above the rest of the row.
func isDateToken(tok string) bool {
	_, ok := normalizeDate(tok)
	return ok
}

// parseNumber turns a money or quantity token into a float. Currency
// symbols and thousands separators are stripped; "(123.45)" and "123.45-"
// both mean negative. Anything unparseable coerces to zero.
// Decimal parsing keeps "1,234.56" exact before the float conversion.
func parseNumber(tok string) float64 {
	s := strings.TrimSpace(tok)
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '$' || r == '%' || unicode.IsSpace(r):
			return -1
		case r == '€' || r == '£':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	v := d.InexactFloat64()
	if negative {
		v = -v
	}
	return domain.SafeFloat(v)
}

// normalizeActivity title-cases the label and resolves a bare "Transfer"
// into "Transfer In"/"Transfer Out" using the amount's sign.
func normalizeActivity(activity string, amount float64) string {
	label := titleWords(activity)
	if label == "Transfer" {
		switch {
		case amount < 0:
			return "Transfer Out"
		case amount > 0:
			return "Transfer In"
		}
	}
	return label
}

// titleWords uppercases the first rune of each word, leaving the rest of
// the word alone so acronyms and mixed-case labels survive.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
