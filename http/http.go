package http

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (compatible; gold-alert; +https://github.com/polyrabbit/gold-alert)"

type Client struct {
	*resty.Client
}

func New(cfg *config.Config) *Client {
	// Thread safe
	rc := resty.New()
	rc.SetHeader("User-Agent", userAgent)
	if cfg.Timeout != 0 {
		logrus.Debugf("HTTP request timeout is set to %d seconds", cfg.Timeout)
		rc.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	if cfg.Proxy != "" {
		if _, err := url.Parse(cfg.Proxy); err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", cfg.Proxy, err)
		} else {
			logrus.Debugf("Using proxy %s", cfg.Proxy)
			rc.SetProxy(cfg.Proxy)
		}
	}
	return &Client{rc}
}

// Get fetches rawURL and returns the body, non-2xx responses give a *ResponseError.
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	resp, err := c.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Cache-Control", "no-cache, no-store, must-revalidate").
		Get(rawURL)
	if err != nil {
		return nil, err
	}
	if err := CheckResponse(resp); err != nil {
		return resp.Body(), err
	}
	return resp.Body(), nil
}

func CheckResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &ResponseError{Status: resp.Status(), StatusCode: resp.StatusCode(), Body: resp.Body()}
}

type ResponseError struct {
	Status     string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return "HTTP " + e.Status + ", body " + string(body)
}
