package model

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Price is a quoted price cell. Text holds the normalized cell text, which is what
// snapshots store and what equality is decided on.
type Price struct {
	Text    string
	Value   decimal.Decimal
	Numeric bool
}

var (
	groupedNumber = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)
	plainNumber   = regexp.MustCompile(`^\d+$`)
)

// ParsePrice normalizes a raw cell, eg. "14.780.000" becomes 14780000.
// Anything that does not look like an integer amount is kept as text.
func ParsePrice(raw string) Price {
	// strings.Fields splits on unicode spaces too, so "14\u00a0780\u00a0000" is a number
	fields := strings.Fields(raw)
	text := strings.Join(fields, " ")
	compact := strings.Join(fields, "")
	if groupedNumber.MatchString(compact) {
		compact = strings.NewReplacer(".", "", ",", "").Replace(compact)
	}
	if plainNumber.MatchString(compact) {
		value, err := decimal.NewFromString(compact)
		if err == nil {
			return Price{Text: compact, Value: value, Numeric: true}
		}
	}
	return Price{Text: text}
}

func (p Price) IsEmpty() bool {
	return p.Text == ""
}

func (p Price) Equal(other Price) bool {
	return p.Text == other.Text
}

// String renders the price for humans, numbers get comma grouping.
func (p Price) String() string {
	switch {
	case p.IsEmpty():
		return "-"
	case p.Numeric && p.Value.IsInteger():
		return humanize.BigComma(p.Value.BigInt())
	default:
		return p.Text
	}
}

type PriceRow struct {
	Name string
	Buy  Price
	Sell Price
}

func (r PriceRow) Equal(other PriceRow) bool {
	return r.Name == other.Name && r.Buy.Equal(other.Buy) && r.Sell.Equal(other.Sell)
}

// PriceTable is the result of one fetch, rows keep the page order.
type PriceTable struct {
	rows []PriceRow
}

func NewPriceTable(rows []PriceRow) *PriceTable {
	copied := make([]PriceRow, len(rows))
	copy(copied, rows)
	return &PriceTable{rows: copied}
}

func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

func (t *PriceTable) Rows() []PriceRow {
	if t == nil {
		return nil
	}
	copied := make([]PriceRow, len(t.rows))
	copy(copied, t.rows)
	return copied
}

// Equal reports whether both tables hold the same rows in the same order.
// A nil table equals nothing, so a missing snapshot always counts as a change.
func (t *PriceTable) Equal(other *PriceTable) bool {
	if t == nil || other == nil {
		return false
	}
	if len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.rows {
		if !t.rows[i].Equal(other.rows[i]) {
			return false
		}
	}
	return true
}

// Lookup finds the first row with the given name.
func (t *PriceTable) Lookup(name string) (PriceRow, bool) {
	if t == nil {
		return PriceRow{}, false
	}
	for _, row := range t.rows {
		if row.Name == name {
			return row, true
		}
	}
	return PriceRow{}, false
}
