// Package paths locates ccm's configuration root and profile storage
// directory and makes sure the latter exists.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the configuration root when set.
const EnvConfigDir = "CCM_CONFIG_DIR"

const (
	appDirName      = "ccm"
	profilesDirName = "profiles"
	settingsFile    = "config.yaml"

	// ProfileExt is the file extension of a stored profile record.
	ProfileExt = ".toml"
)

// ErrConfigDirUnavailable is returned when the host has no conventional
// per-user configuration location.
var ErrConfigDirUnavailable = errors.New("configuration directory unavailable")

// Error wraps a path resolution failure with the directory involved
type Error struct {
	Op   string // "resolve" or "create"
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("paths %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("paths %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Paths holds the resolved locations used by ccm.
type Paths struct {
	ConfigDir   string
	ProfilesDir string
}

// Resolve computes the configuration root from the environment and
// ensures the profiles directory exists.
func Resolve() (*Paths, error) {
	root, err := configRoot()
	if err != nil {
		return nil, err
	}
	return At(root)
}

// At builds Paths rooted at dir and ensures the profiles directory exists.
// Creating an already existing directory is not an error.
func At(dir string) (*Paths, error) {
	if dir == "" {
		return nil, &Error{Op: "resolve", Err: ErrConfigDirUnavailable}
	}

	p := &Paths{
		ConfigDir:   dir,
		ProfilesDir: filepath.Join(dir, profilesDirName),
	}

	if err := os.MkdirAll(p.ProfilesDir, 0700); err != nil {
		return nil, &Error{Op: "create", Path: p.ProfilesDir, Err: err}
	}

	return p, nil
}

// SettingsFile returns the path of the global settings file.
func (p *Paths) SettingsFile() string {
	return filepath.Join(p.ConfigDir, settingsFile)
}

// ProfileFile returns the path of the record for the named profile.
// The name is not validated here.
func (p *Paths) ProfileFile(name string) string {
	return filepath.Join(p.ProfilesDir, name+ProfileExt)
}

func configRoot() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "", &Error{Op: "resolve", Err: fmt.Errorf("%w: %v", ErrConfigDirUnavailable, err)}
	}

	return filepath.Join(base, appDirName), nil
}
