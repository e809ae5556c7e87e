package format

import (
	"html"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/polyrabbit/gold-alert/model"
)

const (
	Title      = "🏅 GIÁ VÀNG HÔM NAY - BẢO TÍN MẠNH HẢI"
	TimeLayout = "2006-01-02 15:04:05"

	ColumnName = "Loại vàng"
	ColumnBuy  = "Mua (VND)"
	ColumnSell = "Bán (VND)"

	columnGap = "  "
)

// Telegram clients render <pre> with a Latin monospace font, so ambiguous
// runes are always one cell wide regardless of the local locale.
var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

func Width(s string) int {
	return widthCondition.StringWidth(s)
}

// Columns returns the text table lines, header first. Every column is as wide
// as its widest cell, names are left aligned and prices right aligned.
func Columns(table *model.PriceTable) []string {
	cells := [][3]string{{ColumnName, ColumnBuy, ColumnSell}}
	for _, row := range table.Rows() {
		cells = append(cells, [3]string{row.Name, row.Buy.String(), row.Sell.String()})
	}

	var widths [3]int
	for _, line := range cells {
		for i, cell := range line {
			if w := Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(cells))
	for _, line := range cells {
		lines = append(lines, widthCondition.FillRight(line[0], widths[0])+
			columnGap+widthCondition.FillLeft(line[1], widths[1])+
			columnGap+widthCondition.FillLeft(line[2], widths[2]))
	}
	return lines
}

// Message renders the Telegram HTML message for a table fetched at the given time.
func Message(table *model.PriceTable, at time.Time, sourceURL string) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(Title) + "</b>\n")
	b.WriteString("🕓 " + at.Format(TimeLayout) + "\n\n")
	b.WriteString("<pre>")
	for i, line := range Columns(table) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("</pre>\n")
	b.WriteString("Nguồn: " + html.EscapeString(sourceURL))
	return b.String()
}
