package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/syntree/pkg/document"
	"github.com/matzehuels/syntree/pkg/errors"
)

func TestStoreCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	locations := map[string]string{
		"file":  filepath.Join(t.TempDir(), "docs"),
		"redis": "redis://" + mr.Addr() + "/0",
	}

	for name, location := range locations {
		t.Run(name, func(t *testing.T) {
			testEnv(t)
			path := writeDocument(t)

			if _, err := runCLI(t, "store", "put", path, "--store", location); err != nil {
				t.Fatalf("store put error: %v", err)
			}
			if _, err := runCLI(t, "store", "put", path, "--id", "copy", "--store", location); err != nil {
				t.Fatalf("store put --id error: %v", err)
			}

			out, err := runCLI(t, "store", "ls", "--store", location)
			if err != nil {
				t.Fatalf("store ls error: %v", err)
			}
			if got := strings.Fields(out); len(got) != 2 || got[0] != "copy" || got[1] != "sentence" {
				t.Errorf("store ls = %q, want [copy sentence]", got)
			}

			out, err = runCLI(t, "store", "get", "sentence", "-f", "yaml", "--store", location)
			if err != nil {
				t.Fatalf("store get error: %v", err)
			}
			if !strings.Contains(out, "title: The cat sat") {
				t.Errorf("store get output = %q", out)
			}

			exported := filepath.Join(t.TempDir(), "out.toml")
			if _, err := runCLI(t, "store", "get", "copy", "-o", exported, "--store", location); err != nil {
				t.Fatalf("store get -o error: %v", err)
			}
			doc, err := document.Import(exported)
			if err != nil {
				t.Fatalf("exported document: %v", err)
			}
			if doc.ID != "copy" || doc.Len() != 4 {
				t.Errorf("exported document id = %q, len = %d", doc.ID, doc.Len())
			}

			if _, err := runCLI(t, "store", "rm", "sentence", "copy", "--store", location); err != nil {
				t.Fatalf("store rm error: %v", err)
			}
			if _, err := runCLI(t, "store", "get", "sentence", "--store", location); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
				t.Errorf("get after rm error = %v, want %s", err, errors.ErrCodeDocumentNotFound)
			}
			if _, err := runCLI(t, "store", "rm", "sentence", "--store", location); err == nil {
				t.Error("rm of a missing document should fail")
			}
		})
	}
}

func TestStoreUsesSettings(t *testing.T) {
	testEnv(t)
	dir := filepath.Join(t.TempDir(), "configured")
	settings := writeSettings(t, "store = \""+dir+"\"\n")

	if _, err := runCLI(t, "--config", settings, "store", "put", writeDocument(t)); err != nil {
		t.Fatalf("store put error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sentence.json")); err != nil {
		t.Errorf("document not written to configured store: %v", err)
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name, flag, docID, path, want string
	}{
		{"flag wins", "flag", "doc", "dir/file.json", "flag"},
		{"document id", "", "doc", "dir/file.json", "doc"},
		{"file name", "", "", "dir/file.json", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{ID: tt.docID}
			if got := documentID(doc, tt.flag, tt.path); got != tt.want {
				t.Errorf("documentID() = %q, want %q", got, tt.want)
			}
		})
	}
}
