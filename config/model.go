package config

import "github.com/pkg/errors"

const (
	DefaultSource    = "BaoTinManhHai"
	DefaultSourceURL = "https://baotinmanhhai.vn/"
	DefaultTimezone  = "Asia/Ho_Chi_Minh"
	DefaultFile      = "gold_last.csv"
	DefaultRedisKey  = "gold-alert:snapshot"
)

type TelegramConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChatID    string `mapstructure:"chat_id"`
	APIBase   string `mapstructure:"api_base"`
	AttachCSV bool   `mapstructure:"attach_csv"`
}

type StoreConfig struct {
	File        string `mapstructure:"file"`
	GistToken   string `mapstructure:"gist_token"`
	GistID      string `mapstructure:"gist_id"`
	GistFile    string `mapstructure:"gist_file"`
	GistAPIBase string `mapstructure:"gist_api_base"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisKey    string `mapstructure:"redis_key"`
}

type Config struct {
	Timeout   int            `mapstructure:"timeout"`
	Proxy     string         `mapstructure:"proxy"`
	Debug     bool           `mapstructure:"debug"`
	DryRun    bool           `mapstructure:"dry_run"`
	Source    string         `mapstructure:"source"`
	SourceURL string         `mapstructure:"source_url"`
	Timezone  string         `mapstructure:"timezone"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Store     StoreConfig    `mapstructure:"store"`
}

// Validate checks the settings a real (non dry-run) pass cannot do without.
func (c *Config) Validate() error {
	if c.DryRun {
		return nil
	}
	if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
		return errors.New("missing TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID")
	}
	if (c.Store.GistToken == "") != (c.Store.GistID == "") {
		return errors.New("GIST_TOKEN and GIST_ID must be set together")
	}
	return nil
}
