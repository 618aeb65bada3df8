package config

import "path/filepath"

// QualityPreset describes the models to use for a given quality tier.
type QualityPreset struct {
	Model          string
	EmbeddingModel string
}

// qualityPresets maps each quality tier to its model choices.
var qualityPresets = map[QualityTier]QualityPreset{
	QualityLite:   {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-ada-002"},
	QualityNormal: {Model: "gpt-4o", EmbeddingModel: "text-embedding-ada-002"},
	QualityMax:    {Model: "gpt-4", EmbeddingModel: "text-embedding-3-large"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4o",
		EmbeddingModel: "text-embedding-ada-002",
		Temperature:    0.7,
		Quality:        QualityNormal,
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"*"},
		},
		Paths: PathsConfig{
			DataDir: "data",
		},
		Documents: ChunkingConfig{
			ChunkSize: 200,
			Overlap:   1,
		},
		Dataset: ChunkingConfig{
			ChunkSize: 450,
			Overlap:   200,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
	}
}

// GetPreset returns the quality preset for the given tier, falling back to
// the normal tier for unknown values.
func GetPreset(tier QualityTier) QualityPreset {
	if preset, ok := qualityPresets[tier]; ok {
		return preset
	}
	return qualityPresets[QualityNormal]
}

// applyDerived fills the path fields that default to subpaths of DataDir.
func (p *PathsConfig) applyDerived() {
	if p.DataDir == "" {
		p.DataDir = "data"
	}
	if p.UploadsDir == "" {
		p.UploadsDir = filepath.Join(p.DataDir, "uploads")
	}
	if p.DatasetsDir == "" {
		p.DatasetsDir = filepath.Join(p.DataDir, "datasets")
	}
	if p.VectorDir == "" {
		p.VectorDir = filepath.Join(p.DataDir, "chunks")
	}
	if p.IndexFile == "" {
		p.IndexFile = filepath.Join(p.DataDir, "dataset.index")
	}
	if p.RecordsFile == "" {
		p.RecordsFile = filepath.Join(p.DataDir, "text_records.json")
	}
	if p.HistoryFile == "" {
		p.HistoryFile = filepath.Join(p.DataDir, "history.db")
	}
}
