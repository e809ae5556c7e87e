package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store keeps the last observed price table.
type Store interface {
	Name() string
	// Load returns nil without error when nothing has been saved yet. Every
	// other failure is a store error, it never reads as a first run.
	Load(ctx context.Context) (*model.PriceTable, error)
	Save(ctx context.Context, table *model.PriceTable) error
}

// New picks the backend from the configured credentials: a gist when its token
// and id are set, Redis when a URL is set, the local file otherwise.
func New(cfg *config.StoreConfig, httpClient *http.Client) (Store, error) {
	switch {
	case cfg.GistToken != "" && cfg.GistID != "":
		return NewGistStore(httpClient, cfg.GistAPIBase, cfg.GistToken, cfg.GistID, cfg.GistFile), nil
	case cfg.RedisURL != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return NewRedisStore(redis.NewClient(opts), cfg.RedisKey), nil
	default:
		logrus.Debugf("No remote store configured, using %s", cfg.File)
		return NewFileStore(cfg.File), nil
	}
}

func decode(name string, data []byte) (*model.PriceTable, error) {
	if len(data) == 0 {
		return nil, nil
	}
	table, err := model.UnmarshalCSV(data)
	if err != nil {
		return nil, model.StoreError("decode "+name, err)
	}
	return table, nil
}
