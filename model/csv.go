package model

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

var csvHeader = []string{"product", "buy", "sell"}

// WriteCSV writes the snapshot form of the table, the same layout the
// local snapshot file and the chat attachment use.
func (t *PriceTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, row := range t.Rows() {
		if err := cw.Write([]string{row.Name, row.Buy.Text, row.Sell.Text}); err != nil {
			return errors.Wrapf(err, "write csv row %q", row.Name)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func (t *PriceTable) MarshalCSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses a snapshot written by WriteCSV.
func ReadCSV(r io.Reader) (*PriceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv snapshot has no header")
	}
	for i, col := range csvHeader {
		if records[0][i] != col {
			return nil, errors.Errorf("unexpected csv header %v", records[0])
		}
	}
	rows := make([]PriceRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, PriceRow{
			Name: rec[0],
			Buy:  ParsePrice(rec[1]),
			Sell: ParsePrice(rec[2]),
		})
	}
	return NewPriceTable(rows), nil
}

func UnmarshalCSV(data []byte) (*PriceTable, error) {
	return ReadCSV(bytes.NewReader(data))
}
