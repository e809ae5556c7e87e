package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

// flag name -> config key
var flagKeys = map[string]string{
	"debug":         "debug",
	"timeout":       "timeout",
	"proxy":         "proxy",
	"source":        "source",
	"source-url":    "source_url",
	"timezone":      "timezone",
	"dry-run":       "dry_run",
	"snapshot-file": "store.file",
}

// config key -> environment variable
var envKeys = map[string]string{
	"debug":               "GOLD_ALERT_DEBUG",
	"timeout":             "GOLD_ALERT_TIMEOUT",
	"proxy":               "GOLD_ALERT_PROXY",
	"source":              "GOLD_ALERT_SOURCE",
	"source_url":          "GOLD_ALERT_SOURCE_URL",
	"timezone":            "GOLD_ALERT_TIMEZONE",
	"dry_run":             "GOLD_ALERT_DRY_RUN",
	"telegram.bot_token":  "TELEGRAM_BOT_TOKEN",
	"telegram.chat_id":    "TELEGRAM_CHAT_ID",
	"telegram.api_base":   "TELEGRAM_API_BASE",
	"telegram.attach_csv": "TELEGRAM_ATTACH_CSV",
	"store.file":          "SNAPSHOT_FILE",
	"store.gist_token":    "GIST_TOKEN",
	"store.gist_id":       "GIST_ID",
	"store.gist_file":     "GIST_FILE",
	"store.gist_api_base": "GIST_API_BASE",
	"store.redis_url":     "REDIS_URL",
	"store.redis_key":     "REDIS_KEY",
}

// Parse reads flags, the optional .env and config file, and the environment.
// It exits the process on --help, --version and unusable settings.
func Parse(sources func() []string) *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	fs := pflag.CommandLine
	showVersion := fs.BoolP("version", "v", false, "Show version number")
	showHelp := fs.BoolP("help", "h", false, "Show usage message")
	fs.MarkHidden("help")
	listSources := fs.BoolP("list-sources", "l", false, "List supported price sources")
	var configFile string
	fs.StringVarP(&configFile, "config-file", "c", "", "Config file path, "+
		"by default gold-alert uses \"gold_alert.yml\" in current directory, $HOME or /etc")
	var envFile string
	fs.StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
	defineFlags(fs)
	fs.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	if *listSources {
		ListSourcesAndExit(sources())
	}

	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
		logrus.Warnf("Error reading env file %s: %v", envFile, err)
	}

	cfg, err := Load(fs, configFile)
	if err != nil {
		logrus.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return cfg
}

func defineFlags(fs *pflag.FlagSet) {
	fs.BoolP("debug", "d", false, "Enable debug mode")
	fs.IntP("timeout", "t", 15, "HTTP request timeout in seconds")
	fs.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	fs.StringP("source", "s", DefaultSource, "Price source to watch")
	fs.String("source-url", DefaultSourceURL, "Override the page URL of the price source")
	fs.String("timezone", DefaultTimezone, "Time zone used for the message timestamp")
	fs.BoolP("dry-run", "n", false, "Print the table and message instead of notifying, nothing is saved")
	fs.StringP("snapshot-file", "f", DefaultFile, "Local snapshot file, used when no remote store is configured")
}

// Load builds a Config from an already parsed flag set, the environment and
// an optional config file.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("telegram.attach_csv", true)
	v.SetDefault("store.gist_file", DefaultFile)
	v.SetDefault("store.gist_api_base", "https://api.github.com")
	v.SetDefault("store.redis_key", DefaultRedisKey)

	for name, key := range flagKeys {
		if flag := fs.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", name)
			}
		}
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", env)
		}
	}

	v.SetConfigName("gold_alert") // name of config file (without extension)
	v.AddConfigPath(".")          // path to look for the config file in
	v.AddConfigPath("$HOME")      // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")       // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", v.ConfigFileUsed())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugln("Using config file:", v.ConfigFileUsed())
	return &cfg, nil
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nWatch gold prices and send a Telegram message when they change")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nEnvironment:")
	fmt.Fprintln(os.Stderr, "  TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID are required unless --dry-run is given.")
	fmt.Fprintln(os.Stderr, "  GIST_TOKEN + GIST_ID keep the snapshot in a GitHub gist, REDIS_URL keeps it in Redis,"+
		" otherwise the snapshot file is used.")
	os.Exit(0)
}

func ListSourcesAndExit(sources []string) {
	fmt.Fprintln(os.Stderr, "Supported sources:")
	for _, name := range sources {
		fmt.Fprintf(os.Stderr, " %s\n", name)
	}
	os.Exit(0)
}
