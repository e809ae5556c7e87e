package source

import (
	"bytes"
	"context"

	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/sirupsen/logrus"
)

const baoTinManhHaiTable = "table.gold-table-content"

type baoTinManhHaiClient struct {
	pageURL    string
	httpClient *http.Client
}

func NewBaoTinManhHaiClient(pageURL string, httpClient *http.Client) *baoTinManhHaiClient {
	if pageURL == "" {
		pageURL = config.DefaultSourceURL
	}
	return &baoTinManhHaiClient{pageURL: pageURL, httpClient: httpClient}
}

func (client *baoTinManhHaiClient) GetName() string {
	return "BaoTinManhHai"
}

func (client *baoTinManhHaiClient) PageURL() string {
	return client.pageURL
}

func (client *baoTinManhHaiClient) GetPriceTable(ctx context.Context) (*model.PriceTable, error) {
	body, err := client.httpClient.Get(ctx, client.pageURL, nil)
	if err != nil {
		return nil, model.NetworkError("fetch "+client.pageURL, err)
	}
	logrus.WithField("bytes", len(body)).Debugf("%s - Fetched %s", client.GetName(), client.pageURL)

	table, err := parsePriceTable(bytes.NewReader(body), baoTinManhHaiTable)
	if err != nil {
		return nil, model.ParseError(client.GetName(), err)
	}
	return table, nil
}

func init() {
	Register((&baoTinManhHaiClient{}).GetName(), func(cfg *config.Config, httpClient *http.Client) Client {
		return NewBaoTinManhHaiClient(cfg.SourceURL, httpClient)
	})
}
