package source

import (
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/model"
)

func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
	// Fields also splits on no-break spaces, which pages use as &nbsp;
	return strings.Join(strings.Fields(s), " ")
}

// parsePriceTable reads the first table matched by selector. Every body row
// with at least three td cells is a quote: name, buy, sell.
func parsePriceTable(r io.Reader, selector string) (*model.PriceTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "read html")
	}
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, errors.Errorf("no %q table on the page", selector)
	}

	// own body rows only, thead rows and nested tables hold no quotes
	bodyRows := table.ChildrenFiltered("tr")
	if tbody := table.ChildrenFiltered("tbody"); tbody.Length() > 0 {
		bodyRows = tbody.ChildrenFiltered("tr")
	}

	var rows []model.PriceRow
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < 3 {
			return
		}
		rows = append(rows, model.PriceRow{
			Name: cleanText(cells.Eq(0).Text()),
			Buy:  model.ParsePrice(cleanText(cells.Eq(1).Text())),
			Sell: model.ParsePrice(cleanText(cells.Eq(2).Text())),
		})
	})
	if len(rows) == 0 {
		return nil, errors.Errorf("%q table has no price rows", selector)
	}
	return model.NewPriceTable(rows), nil
}
