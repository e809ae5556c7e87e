package notify

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/sirupsen/logrus"
)

// https://core.telegram.org/bots/api
const telegramBaseApi = "https://api.telegram.org"

const documentCaption = "Bảng giá chi tiết CSV"

type Telegram struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	chatID     string
	attachCSV  bool
}

func NewTelegram(cfg *config.TelegramConfig, httpClient *http.Client) *Telegram {
	baseURL := cfg.APIBase
	if baseURL == "" {
		baseURL = telegramBaseApi
	}
	return &Telegram{
		httpClient: httpClient,
		baseURL:    baseURL,
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		attachCSV:  cfg.AttachCSV,
	}
}

func (t *Telegram) GetName() string {
	return "Telegram"
}

func (t *Telegram) methodURL(method string) string {
	return t.baseURL + "/bot" + t.botToken + "/" + method
}

// Notify sends the alert text and, when enabled, the table as a CSV document.
// Only the text message decides success, a failed attachment is logged.
func (t *Telegram) Notify(ctx context.Context, message string, table *model.PriceTable, at time.Time) error {
	if err := t.SendMessage(ctx, message); err != nil {
		return err
	}
	if !t.attachCSV {
		return nil
	}
	data, err := table.MarshalCSV()
	if err == nil {
		err = t.SendDocument(ctx, "gold_"+at.Format("20060102_150405")+".csv", data, documentCaption)
	}
	if err != nil {
		logrus.WithError(err).Warnf("%s - Failed to attach the CSV price table", t.GetName())
	}
	return nil
}

func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	resp, err := t.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":                  t.chatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		Post(t.methodURL("sendMessage"))
	return t.checkResponse("sendMessage", resp, err)
}

func (t *Telegram) SendDocument(ctx context.Context, fileName string, data []byte, caption string) error {
	form := map[string]string{"chat_id": t.chatID}
	if caption != "" {
		form["caption"] = caption
	}
	resp, err := t.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetFileReader("document", fileName, bytes.NewReader(data)).
		Post(t.methodURL("sendDocument"))
	return t.checkResponse("sendDocument", resp, err)
}

// Telegram answers {"ok": false, "description": "..."} on failures, usually with a non-2xx status.
func (t *Telegram) checkResponse(method string, resp *resty.Response, err error) error {
	if err != nil {
		// transport errors quote the request URL, which carries the bot token
		if t.botToken != "" {
			err = errors.New(strings.ReplaceAll(err.Error(), t.botToken, "<token>"))
		}
		return model.NotifyError(method, err)
	}
	ok, okErr := jsonparser.GetBoolean(resp.Body(), "ok")
	if resp.IsSuccess() && okErr == nil && ok {
		return nil
	}
	if description, err := jsonparser.GetString(resp.Body(), "description"); err == nil && description != "" {
		return model.NotifyError(method, errors.Errorf("HTTP %s: %s", resp.Status(), description))
	}
	if err := http.CheckResponse(resp); err != nil {
		return model.NotifyError(method, err)
	}
	return model.NotifyError(method, errors.Errorf("unexpected response %s", resp.Body()))
}
