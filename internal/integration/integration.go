// Package integration renders the fzf shell helpers printed by `dirrank init`.
package integration

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"text/template"
)

// Shells lists the shells the helpers can be rendered for.
//
//nolint:gochecknoglobals // Read-only list
var Shells = []string{"zsh", "bash"}

// ErrUnsupportedShell is returned for a shell not in Shells.
var ErrUnsupportedShell = errors.New("unsupported shell")

//go:embed fzf.sh
var script string

//nolint:gochecknoglobals // Parsed once at init
var tmpl = template.Must(template.New("fzf").Parse(script))

// Script describes one rendering of the helpers.
type Script struct {
	// Name is the shell name, as passed to `dirrank init`.
	Name string
	// Shell is the absolute path of the shell interpreter.
	Shell string
	// Binary is the absolute path of the dirrank executable.
	Binary string
}

// Render locates the named shell and the running executable and renders the helpers.
func Render(name string) (string, error) {
	if !slices.Contains(Shells, name) {
		return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnsupportedShell, name, Shells)
	}

	shell, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", name, err)
	}

	binary, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating dirrank binary: %w", err)
	}

	return Script{
		Name:   name,
		Shell:  filepath.ToSlash(shell),
		Binary: filepath.ToSlash(binary),
	}.Render()
}

// Render executes the template for s.
func (s Script) Render() (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("rendering %s script: %w", s.Name, err)
	}

	return buf.String(), nil
}
