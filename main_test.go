package main

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/model"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.NetworkError("fetch", errors.New("timeout")), exitNetwork},
		{model.ParseError("page", errors.New("no table")), exitParse},
		{errors.Wrap(model.StoreError("get", errors.New("EOF")), "load"), exitStore},
		{model.NotifyError("sendMessage", errors.New("HTTP 400")), exitNotify},
		{errors.New("other"), exitConfig},
	}
	for _, c := range cases {
		if got := exitCode(c.err); got != c.want {
			t.Fatalf("exitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

const page = `<table class="gold-table-content"><tbody>
<tr><td>Vàng miếng SJC</td><td>14.890.000</td><td>15.030.000</td></tr>
</tbody></table>`

func TestRun(t *testing.T) {
	var sent int
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(page))
		case "/bot1:x/sendMessage":
			sent++
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	}))
	defer server.Close()

	snapshot := filepath.Join(t.TempDir(), "gold_last.csv")
	cfg := &config.Config{
		Timeout:   5,
		Source:    config.DefaultSource,
		SourceURL: server.URL + "/",
		Timezone:  config.DefaultTimezone,
		Telegram:  config.TelegramConfig{BotToken: "1:x", ChatID: "42", APIBase: server.URL},
		Store:     config.StoreConfig{File: snapshot},
	}

	t.Run("first run notifies", func(t *testing.T) {
		if code := run(context.Background(), cfg); code != exitOK {
			t.Fatalf("Unexpected exit code %d", code)
		}
		if sent != 1 {
			t.Fatalf("Expected one message, got %d", sent)
		}
		if _, err := os.Stat(snapshot); err != nil {
			t.Fatalf("Snapshot should be saved: %v", err)
		}
	})

	t.Run("second run is quiet", func(t *testing.T) {
		if code := run(context.Background(), cfg); code != exitOK {
			t.Fatalf("Unexpected exit code %d", code)
		}
		if sent != 1 {
			t.Fatalf("Expected no new message, got %d", sent)
		}
	})

	t.Run("page gone", func(t *testing.T) {
		broken := *cfg
		broken.SourceURL = server.URL + "/gone"
		if code := run(context.Background(), &broken); code != exitNetwork {
			t.Fatalf("Unexpected exit code %d", code)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		broken := *cfg
		broken.Source = "Nope"
		if code := run(context.Background(), &broken); code != exitConfig {
			t.Fatalf("Unexpected exit code %d", code)
		}
	})
}
