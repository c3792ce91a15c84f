package devenv

import (
	"bufio"
	"bytes"
	"lmssynergy/lib/configutil"
	"os"
	"path/filepath"
	"strings"
)

const (
	moduleName = "lmssynergy"
	// placeholder accepted at the start of file paths in configs and flags
	StatePlaceholder = "<dev_state>"
	// overrides the state directory, mostly for CI
	StateDirEnv = "SYNERGY_DEV_STATE"
)

func declaresModule(gomod []byte, name string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(gomod))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "module" {
			return strings.Trim(fields[1], `"`) == name
		}
	}
	return false
}

func isWorkspaceRoot(dir string) bool {
	gomod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return false
	}
	return declaresModule(gomod, moduleName)
}

// GetWorkspaceRoot walks up from the working directory to the checkout of
// this module.
func GetWorkspaceRoot() (string, error) {
	dir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	for !isWorkspaceRoot(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
	return dir, nil
}

// StateDir is dev/.state in the workspace unless SYNERGY_DEV_STATE is set.
func StateDir() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir, nil
	}
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state"), nil
}

func GetStateFilePath(name string) (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func GetStateConfig[T any](name string) (T, error) {
	path, err := GetStateFilePath(name)
	if err != nil {
		var out T
		return out, err
	}
	return configutil.ReadConfig[T](path)
}

// ResolvePath expands a leading "<dev_state>" into the state directory,
// creating it when missing. Other paths are returned as is.
func ResolvePath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, StatePlaceholder)
	if !ok {
		return path, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.TrimLeft(rest, `/\`)), nil
}
