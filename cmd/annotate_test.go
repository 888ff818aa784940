package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
)

func TestAnnotateCommand(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dict := `[{"text":"API","content":"Application Programming Interface"}]`
	if err := os.WriteFile(filepath.Join(dataDir, "en_GB"+dictionary.FileSuffix), []byte(dict), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Dictionary = dataDir
	cfgPath := filepath.Join(dir, ".texotip.yml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	in := filepath.Join(dir, "page.html")
	page := `<main id="content"><p>Visit <a href="/x">our site</a> for API docs.</p></main><footer>API</footer>`
	if err := os.WriteFile(in, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.html")

	rootCmd.SetArgs([]string{"annotate", "--config", cfgPath, "--container", "#content", "--output", out, in})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, `id="texotip1"`) {
		t.Errorf("expected an annotated element in %s", got)
	}
	if !strings.HasSuffix(got, "<footer>API</footer>") {
		t.Errorf("text outside the container must be untouched: %s", got)
	}
}
