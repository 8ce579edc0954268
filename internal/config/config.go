package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DBConfig holds the Postgres connection settings for the structured store.
type DBConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// LLMConfig holds settings for one OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

// VectorConfig holds the semantic store location and backup key.
type VectorConfig struct {
	Path          string `yaml:"path"`
	InMemory      bool   `yaml:"in_memory"`
	EncryptionKey string `yaml:"encryption_key"`
}

// RAGConfig holds retrieval settings.
type RAGConfig struct {
	TopK          int `yaml:"top_k"`
	MaxEmbedChars int `yaml:"max_embed_chars"`
}

type Config struct {
	Database     DBConfig     `yaml:"database"`
	EmbedLLM     LLMConfig    `yaml:"embed_llm"`
	InferenceLLM LLMConfig    `yaml:"inference_llm"`
	Vector       VectorConfig `yaml:"vector"`
	RAG          RAGConfig    `yaml:"rag"`
}

const (
	defaultVectorPath    = "./chromemdb"
	defaultTopK          = 5
	defaultMaxEmbedChars = 4000
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Vector.Path == "" {
		cfg.Vector.Path = defaultVectorPath
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.RAG.MaxEmbedChars == 0 {
		cfg.RAG.MaxEmbedChars = defaultMaxEmbedChars
	}
}
