package source

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
)

const goldPage = `<!DOCTYPE html>
<html><body>
<div class="gold-price">
  <h2>Bảng giá vàng</h2>
  <table class="gold-table-content">
    <thead><tr><th>Loại vàng</th><th>Mua vào</th><th>Bán ra</th></tr></thead>
    <tbody>
      <tr>
        <td>
          Nhẫn ép vỉ   Kim Gia Bảo
        </td>
        <td> 14.780.000 </td>
        <td>15.080.000</td>
      </tr>
      <tr><td>Vàng miếng SJC</td><td>14.890.000</td><td>15.030.000</td></tr>
      <tr><td colspan="3">Đơn vị: VND/chỉ</td></tr>
    </tbody>
  </table>
  <table class="gold-table-content"><tbody><tr><td>ignored</td><td>1</td><td>2</td></tr></tbody></table>
</div>
</body></html>`

func flatten(table *model.PriceTable) [][]string {
	var out [][]string
	for _, row := range table.Rows() {
		out = append(out, []string{row.Name, row.Buy.Text, row.Sell.Text})
	}
	return out
}

func TestParsePriceTable(t *testing.T) {

	t.Run("example page", func(t *testing.T) {
		table, err := parsePriceTable(strings.NewReader(goldPage), baoTinManhHaiTable)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := [][]string{
			{"Nhẫn ép vỉ Kim Gia Bảo", "14780000", "15080000"},
			{"Vàng miếng SJC", "14890000", "15030000"},
		}
		if diff := cmp.Diff(want, flatten(table)); diff != "" {
			t.Fatalf("Unexpected rows (-want +got):\n%s", diff)
		}
		rows := table.Rows()
		if rows[0].Buy.Value.IntPart() != 14780000 || rows[0].Sell.Value.IntPart() != 15080000 {
			t.Fatalf("Unexpected numeric values %+v", rows[0])
		}
		if rows[1].Buy.Value.IntPart() != 14890000 || rows[1].Sell.Value.IntPart() != 15030000 {
			t.Fatalf("Unexpected numeric values %+v", rows[1])
		}
	})

	t.Run("rows without tbody", func(t *testing.T) {
		page := `<table class="gold-table-content"><tr><td>A</td><td>1.000</td><td></td></tr></table>`
		table, err := parsePriceTable(strings.NewReader(page), baoTinManhHaiTable)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"A", "1000", ""}}, flatten(table)); diff != "" {
			t.Fatalf("Unexpected rows (-want +got):\n%s", diff)
		}
	})

	t.Run("header row with td cells", func(t *testing.T) {
		page := `<table class="gold-table-content">
<thead><tr><td>Loại vàng</td><td>Mua vào</td><td>Bán ra</td></tr></thead>
<tbody><tr><td>SJC</td><td>14.890.000</td><td>15.030.000</td></tr></tbody>
</table>`
		table, err := parsePriceTable(strings.NewReader(page), baoTinManhHaiTable)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"SJC", "14890000", "15030000"}}, flatten(table)); diff != "" {
			t.Fatalf("Unexpected rows (-want +got):\n%s", diff)
		}
	})

	t.Run("nested table", func(t *testing.T) {
		page := `<table class="gold-table-content"><tbody>
<tr><td>SJC</td><td>14.890.000</td><td>15.030.000</td></tr>
<tr><td colspan="3"><table><tbody><tr><td>note</td><td>1</td><td>2</td></tr></tbody></table></td></tr>
</tbody></table>`
		table, err := parsePriceTable(strings.NewReader(page), baoTinManhHaiTable)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"SJC", "14890000", "15030000"}}, flatten(table)); diff != "" {
			t.Fatalf("Unexpected rows (-want +got):\n%s", diff)
		}
	})

	t.Run("no-break spaces", func(t *testing.T) {
		page := `<table class="gold-table-content"><tbody>
<tr><td>Vàng&nbsp;&nbsp;miếng SJC</td><td>14&nbsp;780&nbsp;000</td><td>&nbsp;15.030.000&nbsp;</td></tr>
</tbody></table>`
		table, err := parsePriceTable(strings.NewReader(page), baoTinManhHaiTable)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"Vàng miếng SJC", "14780000", "15030000"}}, flatten(table)); diff != "" {
			t.Fatalf("Unexpected rows (-want +got):\n%s", diff)
		}
		if !table.Rows()[0].Buy.Numeric {
			t.Fatalf("Space grouped price should be numeric")
		}
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := parsePriceTable(strings.NewReader(`<html><table class="other"></table></html>`), baoTinManhHaiTable)
		if err == nil {
			t.Fatalf("Should fail when the table is missing")
		}
	})

	t.Run("table without rows", func(t *testing.T) {
		page := `<table class="gold-table-content"><thead><tr><th>a</th><th>b</th><th>c</th></tr></thead></table>`
		_, err := parsePriceTable(strings.NewReader(page), baoTinManhHaiTable)
		if err == nil {
			t.Fatalf("Should fail when the table has no price rows")
		}
	})
}

func TestBaoTinManhHaiClient(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(goldPage))
		case "/redesigned":
			w.Write([]byte(`<html><body><div class="new-layout"></div></body></html>`))
		default:
			w.WriteHeader(nethttp.StatusBadGateway)
		}
	}))
	defer server.Close()

	httpClient := http.New(&config.Config{Timeout: 5})

	t.Run("GetPriceTable", func(t *testing.T) {
		client := NewBaoTinManhHaiClient(server.URL+"/", httpClient)
		table, err := client.GetPriceTable(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if table.Len() != 2 {
			t.Fatalf("Expected 2 rows, got %d", table.Len())
		}
	})

	t.Run("layout changed", func(t *testing.T) {
		client := NewBaoTinManhHaiClient(server.URL+"/redesigned", httpClient)
		_, err := client.GetPriceTable(context.Background())
		if !model.IsKind(err, model.KindParse) {
			t.Fatalf("Expected a parse error, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		client := NewBaoTinManhHaiClient(server.URL+"/down", httpClient)
		_, err := client.GetPriceTable(context.Background())
		if !model.IsKind(err, model.KindNetwork) {
			t.Fatalf("Expected a network error, got %v", err)
		}
	})

	t.Run("default url", func(t *testing.T) {
		if NewBaoTinManhHaiClient("", httpClient).PageURL() != config.DefaultSourceURL {
			t.Fatalf("Empty page URL should fall back to the default")
		}
	})
}
