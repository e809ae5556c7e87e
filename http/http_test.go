package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "gold-alert") {
			w.WriteHeader(nethttp.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello " + r.URL.Query().Get("name")))
		default:
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			w.Write([]byte(strings.Repeat("x", 500)))
		}
	}))
	defer server.Close()

	client := New(&config.Config{Timeout: 5})

	t.Run("success", func(t *testing.T) {
		body, err := client.Get(context.Background(), server.URL+"/ok", map[string]string{"name": "gold"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(body) != "hello gold" {
			t.Fatalf("Unexpected body %q", body)
		}
	})

	t.Run("non 2xx", func(t *testing.T) {
		_, err := client.Get(context.Background(), server.URL+"/down", nil)
		var respErr *ResponseError
		if !errors.As(err, &respErr) {
			t.Fatalf("Expected a ResponseError, got %v", err)
		}
		if respErr.StatusCode != nethttp.StatusServiceUnavailable {
			t.Fatalf("Unexpected status %d", respErr.StatusCode)
		}
		if len(respErr.Error()) > 250 {
			t.Fatalf("Error message should truncate the body")
		}
	})
}
