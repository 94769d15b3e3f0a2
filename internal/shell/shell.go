// Package shell renders environment exports for the shells ccm supports.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Shell is a supported shell dialect.
type Shell string

const (
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
	Fish Shell = "fish"
)

// ErrUnsupportedShell is matched with errors.Is.
var ErrUnsupportedShell = errors.New("unsupported shell")

// UnsupportedError names the shell that was rejected.
type UnsupportedError struct {
	Shell string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedShell, e.Shell)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedShell
}

// Names lists the supported shells.
func Names() []string {
	return []string{string(Bash), string(Zsh), string(Fish)}
}

// Parse accepts a shell name or a path to a shell binary.
func Parse(name string) (Shell, error) {
	base := filepath.Base(strings.TrimSpace(name))
	switch Shell(base) {
	case Bash, Zsh, Fish:
		return Shell(base), nil
	}
	return "", &UnsupportedError{Shell: name}
}

// Detect parses $SHELL.
func Detect() (Shell, error) {
	v := os.Getenv("SHELL")
	if v == "" {
		return "", &UnsupportedError{Shell: "(SHELL not set)"}
	}
	return Parse(v)
}

// Var is one exported variable.
type Var struct {
	Name  string
	Value string
}

// Export renders statements that set vars in order.
func (s Shell) Export(vars []Var) string {
	var b strings.Builder
	for _, v := range vars {
		switch s {
		case Fish:
			fmt.Fprintf(&b, "set -gx %s %s;\n", v.Name, s.quote(v.Value))
		default:
			fmt.Fprintf(&b, "export %s=%s\n", v.Name, s.quote(v.Value))
		}
	}
	return b.String()
}

// Unset renders statements that remove names.
func (s Shell) Unset(names []string) string {
	var b strings.Builder
	for _, n := range names {
		switch s {
		case Fish:
			fmt.Fprintf(&b, "set -e %s;\n", n)
		default:
			fmt.Fprintf(&b, "unset %s\n", n)
		}
	}
	return b.String()
}

func (s Shell) quote(v string) string {
	if s == Fish {
		r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
		return "'" + r.Replace(v) + "'"
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
