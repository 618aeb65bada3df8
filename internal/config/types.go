package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// Config is the top-level datachat configuration, corresponding to .datachat.yml.
type Config struct {
	// APIKey is sourced from the environment or the key endpoint, never
	// persisted to the config file.
	APIKey string `yaml:"-" koanf:"api_key"`

	Model          string      `yaml:"model" koanf:"model"`
	EmbeddingModel string      `yaml:"embedding_model" koanf:"embedding_model"`
	Temperature    float32     `yaml:"temperature" koanf:"temperature"`
	Quality        QualityTier `yaml:"quality" koanf:"quality"`

	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Paths     PathsConfig     `yaml:"paths" koanf:"paths"`
	Documents ChunkingConfig  `yaml:"documents" koanf:"documents"`
	Dataset   ChunkingConfig  `yaml:"dataset" koanf:"dataset"`
	Retrieval RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host" koanf:"host"`
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// PathsConfig holds on-disk locations. Only DataDir is usually set; the
// rest default to subpaths of it.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" koanf:"data_dir"`
	UploadsDir  string `yaml:"uploads_dir" koanf:"uploads_dir"`
	DatasetsDir string `yaml:"datasets_dir" koanf:"datasets_dir"`
	VectorDir   string `yaml:"vector_dir" koanf:"vector_dir"`
	IndexFile   string `yaml:"index_file" koanf:"index_file"`
	RecordsFile string `yaml:"records_file" koanf:"records_file"`
	HistoryFile string `yaml:"history_file" koanf:"history_file"`
}

// ChunkingConfig holds the window parameters for one ingestion pipeline.
// For documents the unit is words per chunk and sentences of overlap; for
// datasets it is rows per window and rows of overlap.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size" koanf:"chunk_size"`
	Overlap   int `yaml:"overlap" koanf:"overlap"`
}

// RetrievalConfig holds query-time settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" koanf:"top_k"`
}
