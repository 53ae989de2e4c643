package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if cfg.HasSpreadsheet() {
		t.Error("fresh config claims a spreadsheet")
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := Load(dir)
	cfg.SpreadsheetID = "1AbC-spreadsheet-id"
	cfg.Model = "gemini-2.0-flash"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if back.SpreadsheetID != cfg.SpreadsheetID {
		t.Errorf("spreadsheet id = %q, want %q", back.SpreadsheetID, cfg.SpreadsheetID)
	}
	if back.Model != cfg.Model {
		t.Errorf("model = %q, want %q", back.Model, cfg.Model)
	}
	if !back.HasSpreadsheet() {
		t.Error("HasSpreadsheet false after round trip")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("spreadsheet_id: [this is\nnot yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("malformed config loaded without error")
	}
}

func TestLoadTrimsSpreadsheetID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("spreadsheet_id: \"  padded-id  \"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SpreadsheetID != "padded-id" {
		t.Errorf("spreadsheet id = %q, want trimmed", cfg.SpreadsheetID)
	}
}

func TestSaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", AppName)
	cfg, _ := Load(dir)
	cfg.SpreadsheetID = "id"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save into missing dir: %v", err)
	}
	if _, err := os.Stat(cfg.Path()); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestTokenHelpers(t *testing.T) {
	cfg, _ := Load(t.TempDir())
	if cfg.HasToken() {
		t.Error("HasToken true before any token exists")
	}
	if err := os.WriteFile(cfg.TokenPath(), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !cfg.HasToken() {
		t.Error("HasToken false after writing token")
	}
	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("RemoveToken: %v", err)
	}
	if cfg.HasToken() {
		t.Error("HasToken true after removal")
	}
}
