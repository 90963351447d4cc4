package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "log:\n  level: error\n")

	a, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Config.Volpiano.Clefs != "12" {
		t.Errorf("clefs = %q, want 12", a.Config.Volpiano.Clefs)
	}

	got, err := a.Engine.SyllabizeText("Agnus dei", false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Ag-nus de-i" {
		t.Errorf("SyllabizeText = %q, want %q", got, "Ag-nus de-i")
	}
	if a.DiagSink() == nil {
		t.Error("DiagSink returned nil")
	}
}

func TestNew_RulesOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "log:\n  level: error\nvolpiano:\n  clefs: \"1\"\n")
	rulesPath := writeFile(t, dir, "rules.yaml", "onset_clusters: [st, sp, sc, ct, gn]\n")

	a, err := New(Options{ConfigPath: cfgPath, RulesPath: rulesPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Config.Syllabifier.RulesPath != rulesPath {
		t.Errorf("rules_path = %q, want %q", a.Config.Syllabifier.RulesPath, rulesPath)
	}

	got, err := a.Engine.SyllabizeText("Agnus dei", false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "A-gnus de-i" {
		t.Errorf("SyllabizeText = %q, want %q", got, "A-gnus de-i")
	}

	if _, err := a.Engine.Align("a", false, "2---f---4"); err == nil {
		t.Error("clef 2 should be rejected when clefs=1")
	}
}

func TestNew_BadRules(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "log:\n  level: error\n")

	_, err := New(Options{ConfigPath: cfgPath, RulesPath: filepath.Join(dir, "missing.yaml")})
	if err == nil || !strings.Contains(err.Error(), "syllable rules") {
		t.Fatalf("error = %v, want syllable rules error", err)
	}
}

func TestNew_BadConfig(t *testing.T) {
	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	if got := BuildVersion(); !strings.HasPrefix(got, "chantalign dev") {
		t.Errorf("BuildVersion = %q", got)
	}
}
