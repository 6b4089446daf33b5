package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/syntree/pkg/errors"
)

const sentenceJSON = `{
  "title": "The cat sat",
  "root": {
    "id": 1, "x": 100, "y": 20, "label": "S",
    "children": [
      {"id": 2, "x": 50, "y": 80, "label": "NP", "children": [{"id": 4, "x": 50, "y": 140, "label": "N"}]},
      {"id": 3, "x": 150, "y": 80, "label": "VP"}
    ]
  },
  "connectors": [{"from": 4, "to": 3}]
}`

// testEnv points the config and data directories at temp dirs.
func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

// runCLI executes the root command and returns what it wrote to its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(New(io.Discard, LogInfo))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeDocument writes the sentence fixture and returns its path.
func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentence.json")
	if err := os.WriteFile(path, []byte(sentenceJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateRenderFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"graphviz", false},
		{"json", false},
		{"yaml", false},
		{"toml", false},
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateRenderFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRenderFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"tree.json", "svg", "tree.svg"},
		{"dir/tree.yaml", "dot", "dir/tree.dot"},
		{"tree.toml", "graphviz", "tree.nodelink.svg"},
		{"tree", "yaml", "tree.yaml"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.path, tt.format); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	testEnv(t)

	tests := []struct {
		format string
		suffix string
		want   []string
	}{
		{"svg", ".svg", []string{"<svg", "<title>The cat sat</title>", ">NP<"}},
		{"dot", ".dot", []string{"digraph G {", `"n1" -> "n2";`, "style=dashed"}},
		{"yaml", ".yaml", []string{"title: The cat sat", "label: VP"}},
		{"toml", ".toml", []string{`title = "The cat sat"`, "[[connectors]]"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := writeDocument(t)
			if _, err := runCLI(t, "render", path, "-f", tt.format); err != nil {
				t.Fatalf("render -f %s error: %v", tt.format, err)
			}

			out := strings.TrimSuffix(path, ".json") + tt.suffix
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(data), want) {
					t.Errorf("%s output missing %q", tt.format, want)
				}
			}
		})
	}
}

func TestRenderCommandOutputFlag(t *testing.T) {
	testEnv(t)
	path := writeDocument(t)
	out := filepath.Join(t.TempDir(), "custom.dot")

	if _, err := runCLI(t, "render", path, "-f", "dot", "--hide-connectors", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "style=dashed") {
		t.Error("--hide-connectors output still has connectors")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	testEnv(t)
	path := writeDocument(t)

	if _, err := runCLI(t, "render", path, "-f", "json"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("render onto the input error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	if _, err := runCLI(t, "render", path, "-f", "png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f png error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := runCLI(t, "render", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("render of a missing file should fail")
	}
}
