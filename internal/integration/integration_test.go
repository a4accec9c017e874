package integration

import (
	"errors"
	"strings"
	"testing"
)

func TestScript_Render(t *testing.T) {
	tests := []struct {
		name   string
		script Script
	}{
		{"zsh", Script{Name: "zsh", Shell: "/bin/zsh", Binary: "/usr/local/bin/dirrank"}},
		{"bash", Script{Name: "bash", Shell: "/usr/bin/bash", Binary: "/opt/dirrank"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.script.Render()
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if !strings.HasPrefix(got, "#!"+tt.script.Shell+"\n") {
				t.Errorf("shebang not rendered: %q", strings.SplitN(got, "\n", 2)[0])
			}

			if !strings.Contains(got, `"`+tt.script.Binary+`" --output plain`) {
				t.Error("binary path not rendered")
			}

			if !strings.Contains(got, "dirrank init "+tt.script.Name) {
				t.Error("usage line does not name the shell")
			}

			if strings.Contains(got, "{{") {
				t.Error("unrendered template action left in output")
			}
		})
	}
}

func TestRender_UnsupportedShell(t *testing.T) {
	if _, err := Render("fish"); !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("Render(fish) error = %v, want %v", err, ErrUnsupportedShell)
	}
}
