package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		RateLimit      struct {
			Requests      int `yaml:"requests"`
			WindowMinutes int `yaml:"window_minutes"`
		} `yaml:"rate_limit"`
		MaxBodyBytes int64 `yaml:"max_body_bytes"`
	} `yaml:"server"`
	AI struct {
		Provider    string `yaml:"provider"` // local, gemini, openai, ollama
		Model       string `yaml:"model"`
		APIKey      string `yaml:"api_key"`
		BaseURL     string `yaml:"base_url"`
		Dimension   int    `yaml:"dimension"`
		CacheSize   int    `yaml:"cache_size"`
		BatchSize   int    `yaml:"batch_size"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"ai"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Pipeline Pipeline `yaml:"pipeline"`
}

// Pipeline holds the tuning constants of extraction, clustering and layout.
type Pipeline struct {
	MinConceptImportance      float64 `yaml:"min_concept_importance"`
	MinClusterImportance      float64 `yaml:"min_cluster_importance"`
	BaseSimilarity            float64 `yaml:"base_similarity"`
	ImportanceThresholdFactor float64 `yaml:"importance_threshold_factor"`
	CategoryBonus             float64 `yaml:"category_bonus"`
	MaxRelated                int     `yaml:"max_related"`
	MaxSubNodes               int     `yaml:"max_sub_nodes"`

	BaseImportance   float64 `yaml:"base_importance"`
	LengthStep       float64 `yaml:"length_step"`
	LengthCap        float64 `yaml:"length_cap"`
	CapitalizedBonus float64 `yaml:"capitalized_bonus"`
	TechnicalBonus   float64 `yaml:"technical_bonus"`
	DefinitionBonus  float64 `yaml:"definition_bonus"`

	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
}

// Default returns a configuration that runs fully offline.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 5001
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Server.RateLimit.Requests = 100
	cfg.Server.RateLimit.WindowMinutes = 15
	cfg.Server.MaxBodyBytes = 10 << 20
	cfg.AI.Provider = "local"
	cfg.AI.Dimension = 384
	cfg.AI.CacheSize = 4096
	cfg.AI.BatchSize = 16
	cfg.AI.Concurrency = 4
	cfg.Storage.Path = "mindgraph.db"
	cfg.Log.Mode = "development"
	cfg.Pipeline = Pipeline{
		MinConceptImportance:      0.3,
		MinClusterImportance:      0.4,
		BaseSimilarity:            0.65,
		ImportanceThresholdFactor: 0.1,
		CategoryBonus:             0.05,
		MaxRelated:                4,
		MaxSubNodes:               3,
		BaseImportance:            0.5,
		LengthStep:                0.05,
		LengthCap:                 0.3,
		CapitalizedBonus:          0.1,
		TechnicalBonus:            0.15,
		DefinitionBonus:           0.2,
		CenterX:                   400,
		CenterY:                   300,
	}
	return &cfg
}

// LoadConfig layers .env, the YAML file at path and MINDGRAPH_* variables over Default.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, err
			}
		}
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MINDGRAPH_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("MINDGRAPH_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("MINDGRAPH_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("MINDGRAPH_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("MINDGRAPH_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MINDGRAPH_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("MINDGRAPH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MINDGRAPH_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
}
