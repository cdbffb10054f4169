package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVaultList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "coffee.md", "---\ntitle: Coffee\ntags: [drinks]\n---\nAll about coffee.")
	writeFile(t, dir, "sub/tea.md", "Tea notes with #herbal tag.")
	writeFile(t, dir, "ignore.bin", "binary")
	writeFile(t, dir, ".vaultsearch/index.db", "artifact")

	v := New(dir, []string{"**/*.md"}, []string{"**/.vaultsearch/**"})
	docs, err := v.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d: %v", len(docs), docs)
	}

	byID := make(map[string]int)
	for i, d := range docs {
		byID[d.ID] = i
	}

	coffee, ok := byID["coffee.md"]
	if !ok {
		t.Fatal("coffee.md missing")
	}
	if docs[coffee].Title != "Coffee" {
		t.Errorf("title = %q", docs[coffee].Title)
	}
	if len(docs[coffee].Tags) != 1 || docs[coffee].Tags[0] != "drinks" {
		t.Errorf("tags = %v", docs[coffee].Tags)
	}

	tea, ok := byID["sub/tea.md"]
	if !ok {
		t.Fatal("sub/tea.md missing")
	}
	if len(docs[tea].Tags) != 1 || docs[tea].Tags[0] != "herbal" {
		t.Errorf("tags = %v", docs[tea].Tags)
	}
}

func TestVaultReadTextStripsFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.md", "---\ntitle: X\n---\nThe body.")

	v := New(dir, []string{"**/*.md"}, nil)
	text, err := v.ReadText("note.md")
	if err != nil {
		t.Fatal(err)
	}
	if text != "The body." {
		t.Errorf("text = %q", text)
	}
}

func TestVaultReadTextMissing(t *testing.T) {
	v := New(t.TempDir(), nil, nil)
	if _, err := v.ReadText("absent.md"); err == nil {
		t.Error("expected error for missing document")
	}
}
