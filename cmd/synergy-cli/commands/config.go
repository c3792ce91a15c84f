package commands

import (
	"errors"
	"fmt"
	"lmssynergy/lib/configutil"
	"lmssynergy/lib/digest"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/sqliteutil"
	"os"
	"time"
)

type WatchConfig struct {
	// cron spec, evaluated in moscow time
	Schedule string   `json:"schedule"`
	MailTo   []string `json:"mail_to"`
}

type Config struct {
	BaseUrl           string            `json:"base_url"`
	Username          string            `json:"username"`
	Password          string            `json:"password"`
	Locale            string            `json:"locale"`
	Proxy             string            `json:"proxy"`
	Headers           map[string]string `json:"headers"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	CookieStore       sqliteutil.Config `json:"cookie_store"`
	Smtp              digest.SmtpConfig `json:"smtp"`
	Watch             WatchConfig       `json:"watch"`
}

// loadConfig reads the config file, SYNERGY_* environment variables take
// precedence over it and a missing file is fine when they are set.
func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg.BaseUrl = configutil.EnvOr("SYNERGY_BASE_URL", cfg.BaseUrl)
	cfg.Username = configutil.EnvOr("SYNERGY_USERNAME", cfg.Username)
	cfg.Password = configutil.EnvOr("SYNERGY_PASSWORD", cfg.Password)
	cfg.Locale = configutil.EnvOr("SYNERGY_LOCALE", cfg.Locale)

	if cfg.BaseUrl == "" {
		cfg.BaseUrl = core.DefaultBaseUrl
	}
	if cfg.Username == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf(
			"no credentials, set username and password in %s or SYNERGY_USERNAME and SYNERGY_PASSWORD",
			*configPath,
		)
	}
	return cfg, nil
}

func (c Config) options() (core.Options, error) {
	locale := core.LocaleEnglish
	if c.Locale != "" {
		var err error
		locale, err = core.ParseLocale(c.Locale)
		if err != nil {
			return core.Options{}, err
		}
	}
	return core.Options{
		BaseUrl:           c.BaseUrl,
		Username:          c.Username,
		Password:          c.Password,
		Proxy:             c.Proxy,
		Headers:           c.Headers,
		Locale:            locale,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
	}, nil
}

func (c Config) persistsCookies() bool {
	return c.CookieStore.File != "" || c.CookieStore.Url != ""
}
