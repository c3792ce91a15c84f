package main

import (
	"context"
	"fmt"
	devenv "lmssynergy/dev/env"
	"lmssynergy/lib/cookiestore"
	"lmssynergy/lib/sqliteutil"
	"log/slog"
	"os"
)

const testConfigTemplate = `{
	// base_url: "https://lms.synergy.ru",
	username: "",
	password: "",
	locale: "ru",
	// a discipline title the account is enrolled in, used by the live events test
	discipline: "",
}
`

func CreateCookieStore() error {
	path, err := devenv.ResolvePath(devenv.StatePlaceholder + "/cookies.db")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("cookie store already created at", path)
		return nil
	}

	fmt.Println("creating cookie store at", path)
	store, err := cookiestore.Open(context.Background(), sqliteutil.Config{File: path})
	if err != nil {
		return err
	}
	return store.Close()
}

// WriteTestConfigTemplate leaves an empty credentials file for the live
// portal tests, an existing file is kept.
func WriteTestConfigTemplate() error {
	path, err := devenv.GetStateFilePath("synergy_test.json5")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		return nil
	}
	fmt.Println("writing test config template to", path)
	return os.WriteFile(path, []byte(testConfigTemplate), 0600)
}

func PrintConfigLocations() {
	path, err := devenv.GetStateFilePath("synergy_test.json5")
	if err != nil {
		return
	}
	slog.Info("live portal tests are skipped until credentials are filled in", "config", path)
}
