package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected default model %q, got %q", "gpt-4o", cfg.Model)
	}
	if cfg.Quality != QualityNormal {
		t.Errorf("expected default quality %q, got %q", QualityNormal, cfg.Quality)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.ChunkSize != 450 || cfg.Dataset.Overlap != 200 {
		t.Errorf("unexpected dataset chunking defaults: %+v", cfg.Dataset)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.datachat.yml")

	original := DefaultConfig()
	original.Model = "gpt-4o-mini"
	original.Quality = QualityLite
	original.Server.Port = 9001
	original.Paths.DataDir = filepath.Join(dir, "state")
	original.Documents.ChunkSize = 120

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Quality != original.Quality {
		t.Errorf("quality: got %q, want %q", loaded.Quality, original.Quality)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.Documents.ChunkSize != original.Documents.ChunkSize {
		t.Errorf("documents.chunk_size: got %d, want %d", loaded.Documents.ChunkSize, original.Documents.ChunkSize)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gpt-4o" || cfg.Server.Port != 8000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.UploadsDir != filepath.Join("data", "uploads") {
		t.Errorf("uploads_dir = %q", cfg.Paths.UploadsDir)
	}
	if cfg.Paths.RecordsFile != filepath.Join("data", "text_records.json") {
		t.Errorf("records_file = %q", cfg.Paths.RecordsFile)
	}
	if cfg.Paths.HistoryFile != filepath.Join("data", "history.db") {
		t.Errorf("history_file = %q", cfg.Paths.HistoryFile)
	}
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv("DATACHAT_MODEL", "gpt-4")
	os.Setenv("DATACHAT_SERVER__PORT", "9999")
	defer os.Unsetenv("DATACHAT_MODEL")
	defer os.Unsetenv("DATACHAT_SERVER__PORT")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("env model override not applied: %q", cfg.Model)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("nested env override not applied: %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.applyDerived()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := DefaultConfig()
	bad.Dataset.Overlap = bad.Dataset.ChunkSize
	if err := bad.Validate(); err == nil {
		t.Error("overlap >= chunk size should fail validation")
	}

	bad = DefaultConfig()
	bad.Model = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty model should fail validation")
	}

	bad = DefaultConfig()
	bad.Server.Port = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero port should fail validation")
	}
}

func TestGetPreset(t *testing.T) {
	if p := GetPreset(QualityLite); p.Model != "gpt-4o-mini" {
		t.Errorf("lite preset = %+v", p)
	}
	if p := GetPreset(QualityTier("bogus")); p.Model != "gpt-4o" {
		t.Errorf("unknown tier should fall back to normal, got %+v", p)
	}
}

func TestSaveAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	if err := SaveAPIKey(path, "sk-first"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "OPENAI_API_KEY=sk-first\n" {
		t.Fatalf("fresh file = %q", data)
	}

	if err := os.WriteFile(path, []byte("OTHER=1\nOPENAI_API_KEY=sk-first\nMORE=2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := SaveAPIKey(path, "sk-second"); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "OTHER=1\nOPENAI_API_KEY=sk-second\nMORE=2\n" {
		t.Fatalf("updated file = %q", data)
	}

	if err := os.WriteFile(path, []byte("OTHER=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := SaveAPIKey(path, "sk-third"); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "OTHER=1\nOPENAI_API_KEY=sk-third\n" {
		t.Fatalf("appended file = %q", data)
	}
}
