package writer

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	"github.com/polyrabbit/gold-alert/format"
	"github.com/polyrabbit/gold-alert/model"
)

var faint = color.New(color.Faint).SprintFunc()

type tableWriter struct {
	*uilive.Writer
	table *tablewriter.Table
}

// Set up ascii table writer, out defaults to stdout
func NewTableWriter(out io.Writer) *tableWriter {
	tw := &tableWriter{Writer: uilive.New()}
	if out == nil {
		out = colorable.NewColorableStdout() // For Windows
	}
	tw.Writer.Out = out
	tw.table = tablewriter.NewWriter(tw.Writer)
	tw.table.SetAutoFormatHeaders(false)
	tw.table.SetAutoWrapText(false)
	headers := []string{format.ColumnName, format.ColumnBuy, format.ColumnSell}
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	tw.table.SetHeader(formattedHeaders)
	tw.table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	tw.table.SetRowLine(true)
	tw.table.SetCenterSeparator(faint("-"))
	tw.table.SetColumnSeparator(faint("|"))
	tw.table.SetRowSeparator(faint("-"))
	return tw
}

// highlightChange colors a price by its move against the previous one,
// prices that cannot be compared are left plain.
func (tw *tableWriter) highlightChange(current model.Price, previous *model.Price) string {
	text := current.String()
	if previous == nil || !current.Numeric || !previous.Numeric {
		return text
	}
	switch current.Value.Cmp(previous.Value) {
	case 0:
		return faint(text)
	case 1:
		return color.GreenString(text)
	default:
		return color.RedString(text)
	}
}

func (tw *tableWriter) Render(current, previous *model.PriceTable) {
	tw.table.ClearRows()
	// Fill in data
	for _, row := range current.Rows() {
		var prevBuy, prevSell *model.Price
		if prev, ok := previous.Lookup(row.Name); ok {
			prevBuy, prevSell = &prev.Buy, &prev.Sell
		}
		tw.table.Append([]string{
			row.Name,
			tw.highlightChange(row.Buy, prevBuy),
			tw.highlightChange(row.Sell, prevSell),
		})
	}

	tw.table.Render()
	tw.Flush()
}

// Print renders the table followed by the message that would have been sent.
func (tw *tableWriter) Print(current, previous *model.PriceTable, message string) {
	tw.Render(current, previous)
	fmt.Fprintln(tw.Writer.Out, faint("--- message ---"))
	fmt.Fprintln(tw.Writer.Out, message)
}
