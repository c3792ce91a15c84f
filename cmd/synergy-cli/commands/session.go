package commands

import (
	"context"
	"fmt"
	"lmssynergy/lib/cookiestore"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/platforms/synergy/core"
	"lmssynergy/lib/restyutil"
	"log/slog"
)

func dumpOutput() (restyutil.InstrumentOutput, error) {
	if *dumpDir == "" {
		return nil, nil
	}
	out, err := restyutil.NewFilesystemOutput(*dumpDir)
	if err != nil {
		return nil, fmt.Errorf("prepare dump directory: %w", err)
	}
	return out, nil
}

// openClient restores the stored session of the account when it is still
// signed in, otherwise it signs in again and stores the new cookies.
func openClient(ctx context.Context, cfg Config) (*synergy.Client, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	opts.Dump, err = dumpOutput()
	if err != nil {
		return nil, err
	}

	if !cfg.persistsCookies() {
		return synergy.New(ctx, opts)
	}

	store, err := cookiestore.Open(ctx, cfg.CookieStore)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cookies, err := store.Load(ctx, cfg.Username, cfg.BaseUrl)
	if err != nil {
		return nil, err
	}
	if len(cookies) > 0 {
		client, err := restore(ctx, opts, cookies)
		if err == nil {
			slog.Debug("restored stored session", "username", cfg.Username)
			return client, nil
		}
		slog.Info("stored session is no longer valid, signing in again", "err", err)
	}

	client, err := synergy.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	err = store.Save(ctx, cfg.Username, cfg.BaseUrl, client.Cookies())
	if err != nil {
		slog.Warn("failed to store session cookies", "err", err)
	}
	return client, nil
}

func restore(ctx context.Context, opts core.Options, cookies map[string]string) (*synergy.Client, error) {
	session, err := core.New(opts)
	if err != nil {
		return nil, err
	}
	client := synergy.FromSession(session)
	client.SetCookies(cookies)

	ok, err := client.Verify(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("signed out")
	}
	return client, nil
}

// withClient loads the config, opens a client and closes it after fn.
func withClient(ctx context.Context, fn func(cfg Config, client *synergy.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := openClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(cfg, client)
}
