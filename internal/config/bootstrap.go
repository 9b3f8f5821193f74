package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

const FileName = "config.yml"

var ErrDataDirInUse = errors.New("data dir is in use by another jobboard process")

// LockDataDir takes an exclusive, non-blocking lock on dataDir. Release it with Unlock.
func LockDataDir(dataDir string) (*flock.Flock, error) {
	fl := flock.New(filepath.Join(dataDir, "jobboard.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dataDir, ErrDataDirInUse)
	}
	return fl, nil
}

// EnsureUserConfig makes sure dataDir holds a config file and returns its path.
// A fresh file is copied from defaultPath, or generated from Defaults when
// defaultPath does not exist either.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, FileName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if errors.Is(err, os.ErrNotExist) {
		b, merr := yaml.Marshal(Defaults())
		if merr != nil {
			return "", fmt.Errorf("encode default config: %w", merr)
		}
		if err := os.WriteFile(userPath, b, 0o644); err != nil {
			return "", err
		}
		return userPath, nil
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy default config: %w", err)
	}
	return userPath, nil
}
