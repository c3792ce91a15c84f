// Command dev prepares the local state directory used by the CLI and the
// live portal tests.
package main

import (
	"flag"
	"fmt"
	devenv "lmssynergy/dev/env"
	"log/slog"
	"os"
)

func prepare(recreate bool) error {
	dir, err := devenv.StateDir()
	if err != nil {
		return fmt.Errorf("run this from inside the lmssynergy checkout: %w", err)
	}
	if recreate {
		slog.Info("removing state directory", "dir", dir)
		err = os.RemoveAll(dir)
		if err != nil {
			return err
		}
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}

	err = CreateCookieStore()
	if err != nil {
		return err
	}
	return WriteTestConfigTemplate()
}

func main() {
	recreate := flag.Bool("recreate", false, "wipe the state directory first")
	flag.Parse()

	err := prepare(*recreate)
	if err != nil {
		slog.Error("failed to prepare dev state", "err", err)
		os.Exit(1)
	}
	PrintConfigLocations()
}
