package authority

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Reuters.com", "reuters.com"},
		{"https://www.reuters.com/world/", "reuters.com"},
		{"http://bbc.co.uk:443/news", "bbc.co.uk"},
		{"  WWW.NYTIMES.COM  ", "nytimes.com"},
		{"apnews.com.", "apnews.com"},
		{"", ""},
		{"https://", ""},
		{"www.", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestScoreLookup(t *testing.T) {
	table, err := NewTable(map[string]int{
		"reuters.com": 3,
		"Example.org": 2,
	}, 0)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if got := table.Score("https://www.reuters.com/article"); got != 3 {
		t.Errorf("expected 3 for reuters URL form, got %d", got)
	}
	if got := table.Score("EXAMPLE.ORG"); got != 2 {
		t.Errorf("expected case-insensitive match to score 2, got %d", got)
	}
	if got := table.Score("unknown-blog.net"); got != 0 {
		t.Errorf("unknown domain should score the floor 0, got %d", got)
	}
	if got := table.Score(""); got != 0 {
		t.Errorf("empty domain should score the floor, got %d", got)
	}
}

func TestScoreConfigurableFloor(t *testing.T) {
	table, err := NewTable(nil, 1)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	if got := table.Score("anything.example"); got != 1 {
		t.Errorf("expected floor 1, got %d", got)
	}
}

func TestNewTableRejectsNegatives(t *testing.T) {
	if _, err := NewTable(map[string]int{"a.com": -1}, 0); err == nil {
		t.Error("expected error for negative domain score")
	}
	if _, err := NewTable(nil, -2); err == nil {
		t.Error("expected error for negative floor")
	}
}

func TestDefaultTableTiers(t *testing.T) {
	table, err := DefaultTable(0)
	if err != nil {
		t.Fatalf("DefaultTable failed: %v", err)
	}

	if got := table.Score("who.int"); got != 5 {
		t.Errorf("who.int should score 5, got %d", got)
	}
	if got := table.Score("reuters.com"); got != 3 {
		t.Errorf("reuters.com should score 3, got %d", got)
	}
	if got := table.Score("nytimes.com"); got != 2 {
		t.Errorf("nytimes.com should score 2, got %d", got)
	}
	if got := table.Score("news.google.com"); got != 1 {
		t.Errorf("news.google.com should score 1, got %d", got)
	}
}

func TestLoadTableMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authority.yaml")
	content := `tiers:
  local:
    score: 4
    domains:
      - mycitynews.example
  downgraded:
    score: 1
    domains:
      - cnn.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write table file: %v", err)
	}

	table, err := LoadTable(path, 0)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}

	if got := table.Score("mycitynews.example"); got != 4 {
		t.Errorf("file-defined domain should score 4, got %d", got)
	}
	if got := table.Score("cnn.com"); got != 1 {
		t.Errorf("file entry should override built-in tier, got %d", got)
	}
	if got := table.Score("reuters.com"); got != 3 {
		t.Errorf("untouched built-in entry should survive merge, got %d", got)
	}
}

func TestLoadTableErrors(t *testing.T) {
	if _, err := LoadTable("/nonexistent/authority.yaml", 0); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("tiers: [not, a, map]"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadTable(path, 0); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
