package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// BaseDirEnv overrides platform detection of the base data directory.
const BaseDirEnv = "UNROTATE_BASE_DIR"

// vrchatSteamAppID is VRChat's Steam app id, which names its Proton prefix.
const vrchatSteamAppID = "438100"

// ErrBaseDirUnresolved is returned when no base data directory can be found.
var ErrBaseDirUnresolved = errors.New("cannot determine the LocalLow data directory")

// ResolveBaseDir returns the directory that holds VRChat's data and the
// collection (LocalLow on Windows).
// Priority order:
//  1. UNROTATE_BASE_DIR environment variable (if set)
//  2. Windows: %LOCALAPPDATA%\..\LocalLow, then %USERPROFILE%\AppData\LocalLow
//  3. Elsewhere: LocalLow inside VRChat's Steam Proton prefix, if it exists
func ResolveBaseDir() (string, error) {
	return resolveBaseDir(runtime.GOOS, os.Getenv, os.UserHomeDir, dirExists)
}

func resolveBaseDir(goos string, getenv func(string) string, home func() (string, error), exists func(string) bool) (string, error) {
	if dir := getenv(BaseDirEnv); dir != "" {
		return filepath.Clean(dir), nil
	}

	if goos == "windows" {
		if local := getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(filepath.Dir(filepath.Clean(local)), "LocalLow"), nil
		}
		if profile := getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "LocalLow"), nil
		}
		return "", fmt.Errorf("%w: neither LOCALAPPDATA nor USERPROFILE is set", ErrBaseDirUnresolved)
	}

	homeDir, err := home()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBaseDirUnresolved, err)
	}

	for _, steamRoot := range []string{
		filepath.Join(homeDir, ".steam", "steam"),
		filepath.Join(homeDir, ".local", "share", "Steam"),
	} {
		candidate := filepath.Join(steamRoot, "steamapps", "compatdata", vrchatSteamAppID,
			"pfx", "drive_c", "users", "steamuser", "AppData", "LocalLow")
		if exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: set %s or base_dir", ErrBaseDirUnresolved, BaseDirEnv)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DefaultConfigPath returns <base>/<vendor>/<app>/config.yaml.
func DefaultConfigPath(baseDir string) string {
	d := DefaultConfig()
	return filepath.Join(baseDir, d.Collection.Vendor, d.Collection.App, "config.yaml")
}
