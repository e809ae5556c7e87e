package store

import (
	"context"

	"github.com/buger/jsonparser"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
)

// https://docs.github.com/en/rest/gists/gists
const gistBaseApi = "https://api.github.com"

// GistStore keeps the snapshot as one file of a GitHub gist.
type GistStore struct {
	httpClient *http.Client
	baseURL    string
	token      string
	gistID     string
	fileName   string
}

func NewGistStore(httpClient *http.Client, baseURL, token, gistID, fileName string) *GistStore {
	if baseURL == "" {
		baseURL = gistBaseApi
	}
	if fileName == "" {
		fileName = config.DefaultFile
	}
	return &GistStore{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		gistID:     gistID,
		fileName:   fileName,
	}
}

func (s *GistStore) Name() string {
	return "gist " + s.gistID + "/" + s.fileName
}

func (s *GistStore) request(ctx context.Context) *resty.Request {
	return s.httpClient.R().
		SetContext(ctx).
		SetAuthToken(s.token).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28")
}

func (s *GistStore) gistURL() string {
	return s.baseURL + "/gists/" + s.gistID
}

func (s *GistStore) Load(ctx context.Context) (*model.PriceTable, error) {
	resp, err := s.request(ctx).Get(s.gistURL())
	if err != nil {
		return nil, model.StoreError("get gist "+s.gistID, err)
	}
	if err := http.CheckResponse(resp); err != nil {
		return nil, model.StoreError("get gist "+s.gistID, err)
	}

	file, dataType, _, err := jsonparser.Get(resp.Body(), "files", s.fileName)
	if err == jsonparser.KeyPathNotFoundError || dataType == jsonparser.Null {
		return nil, nil
	}
	if err != nil {
		return nil, model.StoreError("decode gist "+s.gistID, err)
	}

	if truncated, _ := jsonparser.GetBoolean(file, "truncated"); truncated {
		rawURL, err := jsonparser.GetString(file, "raw_url")
		if err != nil {
			return nil, model.StoreError("decode gist "+s.gistID, errors.Wrap(err, "truncated file without raw_url"))
		}
		raw, err := s.request(ctx).Get(rawURL)
		if err != nil {
			return nil, model.StoreError("get "+rawURL, err)
		}
		if err := http.CheckResponse(raw); err != nil {
			return nil, model.StoreError("get "+rawURL, err)
		}
		return decode(s.Name(), raw.Body())
	}

	content, err := jsonparser.GetString(file, "content")
	if err == jsonparser.KeyPathNotFoundError {
		return nil, nil
	}
	if err != nil {
		return nil, model.StoreError("decode gist "+s.gistID, err)
	}
	return decode(s.Name(), []byte(content))
}

// Save patches only our file, other files of the gist are left alone.
func (s *GistStore) Save(ctx context.Context, table *model.PriceTable) error {
	data, err := table.MarshalCSV()
	if err != nil {
		return model.StoreError("encode snapshot", err)
	}
	body := map[string]interface{}{
		"files": map[string]interface{}{
			s.fileName: map[string]string{"content": string(data)},
		},
	}
	resp, err := s.request(ctx).SetBody(body).Patch(s.gistURL())
	if err != nil {
		return model.StoreError("patch gist "+s.gistID, err)
	}
	if err := http.CheckResponse(resp); err != nil {
		return model.StoreError("patch gist "+s.gistID, err)
	}
	return nil
}
