// Package config resolves freightdesk settings with viper. Precedence is
// defaults < config file < FREIGHTDESK_* environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "freightdesk"

type Option struct {
	Key     string
	Default any
	Comment string
}

// Options is the single table of known keys, their defaults and the comment
// written by `config generate`.
func Options() []Option {
	return []Option{
		{Key: "api_url", Default: "http://localhost:3000/api", Comment: "Base URL of the freight API; request paths are appended to it"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the notification journal is data_dir/freightdesk.db"},

		{Key: "routes.verify_otp", Default: "/auth/otp-verify", Comment: "Route the client redirects to when the API answers 401"},
		{Key: "log.level", Default: "warn", Comment: "debug, info, warn or error"},
		{Key: "session.keyring", Default: true, Comment: "Keep the session cookie in the OS keyring; false keeps it for this process only"},
		{Key: "notifications.persist", Default: true, Comment: "Record notifications in the local journal"},
		{Key: "notifications.journal", Default: "", Comment: "Journal DSN (sqlite://<path> or mem://); empty uses data_dir"},
		{Key: "output.mode", Default: "auto", Comment: "auto, plain, json, ndjson, yaml or pretty"},
		{Key: "inbox.from_email", Default: "", Comment: "Mailbox whose messages `inbox list` shows"},
		{Key: "inbox.page_size", Default: 5, Comment: "Messages per inbox page"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load mutates v with defaults, the config file if any, and the environment.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var missing viper.ConfigFileNotFoundError
		if !errors.As(err, &missing) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	return nil
}

// CheckConfigValidity reports every problem at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	raw := strings.TrimSpace(v.GetString("api_url"))
	if raw == "" {
		add("api_url is required")
	} else if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api_url must be an http(s) URL")
	}
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if r := v.GetString("routes.verify_otp"); !strings.HasPrefix(r, "/") {
		add("routes.verify_otp must start with /")
	}
	switch strings.ToLower(v.GetString("log.level")) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level must be one of debug, info, warn, error")
	}
	switch v.GetString("output.mode") {
	case "auto", "plain", "json", "ndjson", "yaml", "pretty":
	default:
		add("output.mode %q is not supported", v.GetString("output.mode"))
	}
	if dsn := v.GetString("notifications.journal"); dsn != "" && !strings.HasPrefix(dsn, "sqlite://") && dsn != "mem://" {
		add("notifications.journal must be sqlite://<path> or mem://")
	}
	if v.GetInt("inbox.page_size") <= 0 {
		add("inbox.page_size must be greater than 0")
	}
	if e := v.GetString("inbox.from_email"); e != "" && !strings.Contains(e, "@") {
		add("inbox.from_email must be an email address")
	}
	return errors.Join(errs...)
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath is where `config generate` writes by default.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

// JournalDSN is notifications.journal when set, else the sqlite file under
// data_dir.
func JournalDSN(v *viper.Viper) string {
	if dsn := v.GetString("notifications.journal"); dsn != "" {
		return dsn
	}
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	return "sqlite://" + filepath.Join(dir, appName+".db")
}
