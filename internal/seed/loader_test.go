package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sageverse/tree/internal/domain"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeSeed(t, `
name: Custom Tree
bio: Hello
avatar_url: https://example.com/a.png
links:
  - title: Mastodon
    url: https://mastodon.social/@me
    icon: 🐘
  - title: Blog
    url: https://blog.example.com
`)

	tpl, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if tpl.Name != "Custom Tree" {
		t.Errorf("Name = %q", tpl.Name)
	}
	if len(tpl.Links) != 2 {
		t.Fatalf("len(Links) = %d, want 2", len(tpl.Links))
	}
	if tpl.Icon("Mastodon") != "🐘" {
		t.Errorf("Icon(Mastodon) = %q", tpl.Icon("Mastodon"))
	}
	if tpl.Icon("Blog") != domain.FallbackIcon {
		t.Errorf("Icon(Blog) = %q, want fallback", tpl.Icon("Blog"))
	}
}

func TestLoaderLoadExpandsEnv(t *testing.T) {
	t.Setenv("TREE_TEST_HANDLE", "sage")
	path := writeSeed(t, `
name: Tree
links:
  - title: Twitter
    url: https://twitter.com/${TREE_TEST_HANDLE}
`)

	tpl, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tpl.Links[0].URL != "https://twitter.com/sage" {
		t.Errorf("URL = %q", tpl.Links[0].URL)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/seed.yaml").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "name: x\nlinks:\n  - title: a\n    url: https://a\n"},
		{name: "no links is fine", input: "name: x\n"},
		{name: "missing name", input: "bio: x\n", wantErr: true},
		{name: "link without title", input: "name: x\nlinks:\n  - url: https://a\n", wantErr: true},
		{name: "link without url", input: "name: x\nlinks:\n  - title: a\n", wantErr: true},
		{name: "broken yaml", input: "name: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSourceReplace(t *testing.T) {
	src := NewSource(nil)
	if src.Current().Name != "Sageverse Tree" {
		t.Fatalf("NewSource(nil) should start with defaults, got %q", src.Current().Name)
	}
	if !src.LastReload().IsZero() {
		t.Error("LastReload() should be zero before any Replace")
	}

	src.Replace(&domain.Template{Name: "Other"})

	if src.Current().Name != "Other" {
		t.Errorf("Current().Name = %q, want Other", src.Current().Name)
	}
	if src.LastReload().IsZero() {
		t.Error("LastReload() should be set after Replace")
	}
}
