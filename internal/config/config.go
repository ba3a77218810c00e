package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Qdrant     QdrantConfig
	Models     ModelsConfig
	Classify   ClassifyConfig
	Session    SessionConfig
	Calibrator CalibratorConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Indexer    IndexerConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the reference store.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// QdrantConfig holds vector index settings.
type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	Collection string `mapstructure:"collection"`
	Dimension  int    `mapstructure:"dimension"`
}

// ModelsConfig holds the external scoring-model endpoints.
type ModelsConfig struct {
	OllamaURL      string `mapstructure:"ollama_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	RerankerURL    string `mapstructure:"reranker_url"`
	LLMModel       string `mapstructure:"llm_model"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// ClassifyConfig holds the classification decision knobs.
type ClassifyConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MarginThreshold     float64 `mapstructure:"margin_threshold"`
	TopKRetrieval       int     `mapstructure:"top_k_retrieval"`
	TopKRerank          int     `mapstructure:"top_k_rerank"`
}

// SessionConfig holds clarification session settings.
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CalibratorConfig holds calibrator artifact settings. When Bucket is set the
// artifact is fetched from S3; otherwise Path is read from local disk.
type CalibratorConfig struct {
	Path      string `mapstructure:"path"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// JWTConfig holds admin-token verification settings.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IndexerConfig holds reindex worker settings.
type IndexerConfig struct {
	BatchSize   int `mapstructure:"batch_size"`
	Concurrency int `mapstructure:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TARCO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TARCO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tarco")
	v.SetDefault("db.password", "tarco")
	v.SetDefault("db.name", "tarco")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Qdrant defaults
	v.SetDefault("qdrant.url", "http://localhost:6333")
	v.SetDefault("qdrant.collection", "nomenclature_chunks")
	v.SetDefault("qdrant.dimension", 384)

	// Model endpoint defaults
	v.SetDefault("models.ollama_url", "http://localhost:11434")
	v.SetDefault("models.embedding_model", "all-minilm")
	v.SetDefault("models.reranker_url", "http://localhost:8090")
	v.SetDefault("models.llm_model", "llama2:7b")
	v.SetDefault("models.timeout_secs", 30)

	// Classification defaults
	v.SetDefault("classify.confidence_threshold", 0.62)
	v.SetDefault("classify.margin_threshold", 0.07)
	v.SetDefault("classify.top_k_retrieval", 32)
	v.SetDefault("classify.top_k_rerank", 5)

	// Session defaults
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.sweep_interval", "5m")

	// Calibrator defaults
	v.SetDefault("calibrator.path", "models/calibrator.json")
	v.SetDefault("calibrator.bucket", "")
	v.SetDefault("calibrator.key", "calibrator.json")
	v.SetDefault("calibrator.region", "eu-central-1")
	v.SetDefault("calibrator.endpoint", "")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "tarco")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Indexer defaults
	v.SetDefault("indexer.batch_size", 64)
	v.SetDefault("indexer.concurrency", 4)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "TARCO_SERVER_PORT",
		"server.read_timeout":          "TARCO_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "TARCO_SERVER_WRITE_TIMEOUT",
		"server.environment":           "TARCO_SERVER_ENVIRONMENT",
		"db.host":                      "TARCO_DB_HOST",
		"db.port":                      "TARCO_DB_PORT",
		"db.user":                      "TARCO_DB_USER",
		"db.password":                  "TARCO_DB_PASSWORD",
		"db.name":                      "TARCO_DB_NAME",
		"db.sslmode":                   "TARCO_DB_SSLMODE",
		"db.max_open":                  "TARCO_DB_MAX_OPEN",
		"db.max_idle":                  "TARCO_DB_MAX_IDLE",
		"qdrant.url":                   "TARCO_QDRANT_URL",
		"qdrant.collection":            "TARCO_QDRANT_COLLECTION",
		"qdrant.dimension":             "TARCO_QDRANT_DIMENSION",
		"models.ollama_url":            "TARCO_MODELS_OLLAMA_URL",
		"models.embedding_model":       "TARCO_MODELS_EMBEDDING_MODEL",
		"models.reranker_url":          "TARCO_MODELS_RERANKER_URL",
		"models.llm_model":             "TARCO_MODELS_LLM_MODEL",
		"models.timeout_secs":          "TARCO_MODELS_TIMEOUT_SECS",
		"classify.confidence_threshold": "TARCO_CLASSIFY_CONFIDENCE_THRESHOLD",
		"classify.margin_threshold":     "TARCO_CLASSIFY_MARGIN_THRESHOLD",
		"classify.top_k_retrieval":      "TARCO_CLASSIFY_TOP_K_RETRIEVAL",
		"classify.top_k_rerank":         "TARCO_CLASSIFY_TOP_K_RERANK",
		"session.ttl":                  "TARCO_SESSION_TTL",
		"session.sweep_interval":       "TARCO_SESSION_SWEEP_INTERVAL",
		"calibrator.path":              "TARCO_CALIBRATOR_PATH",
		"calibrator.bucket":            "TARCO_CALIBRATOR_BUCKET",
		"calibrator.key":               "TARCO_CALIBRATOR_KEY",
		"calibrator.region":            "TARCO_CALIBRATOR_REGION",
		"calibrator.endpoint":          "TARCO_CALIBRATOR_ENDPOINT",
		"calibrator.access_key":        "TARCO_CALIBRATOR_ACCESS_KEY",
		"calibrator.secret_key":        "TARCO_CALIBRATOR_SECRET_KEY",
		"jwt.secret":                   "TARCO_JWT_SECRET",
		"jwt.issuer":                   "TARCO_JWT_ISSUER",
		"cors.allowed_origins":         "TARCO_CORS_ALLOWED_ORIGINS",
		"indexer.batch_size":           "TARCO_INDEXER_BATCH_SIZE",
		"indexer.concurrency":          "TARCO_INDEXER_CONCURRENCY",
		"log.level":                    "TARCO_LOG_LEVEL",
		"log.format":                   "TARCO_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TARCO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TARCO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Qdrant = QdrantConfig{
		URL:        v.GetString("qdrant.url"),
		Collection: v.GetString("qdrant.collection"),
		Dimension:  v.GetInt("qdrant.dimension"),
	}
	cfg.Models = ModelsConfig{
		OllamaURL:      v.GetString("models.ollama_url"),
		EmbeddingModel: v.GetString("models.embedding_model"),
		RerankerURL:    v.GetString("models.reranker_url"),
		LLMModel:       v.GetString("models.llm_model"),
		TimeoutSecs:    v.GetInt("models.timeout_secs"),
	}
	cfg.Classify = ClassifyConfig{
		ConfidenceThreshold: v.GetFloat64("classify.confidence_threshold"),
		MarginThreshold:     v.GetFloat64("classify.margin_threshold"),
		TopKRetrieval:       v.GetInt("classify.top_k_retrieval"),
		TopKRerank:          v.GetInt("classify.top_k_rerank"),
	}
	cfg.Session = SessionConfig{
		TTL:           v.GetDuration("session.ttl"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}
	cfg.Calibrator = CalibratorConfig{
		Path:      v.GetString("calibrator.path"),
		Bucket:    v.GetString("calibrator.bucket"),
		Key:       v.GetString("calibrator.key"),
		Region:    v.GetString("calibrator.region"),
		Endpoint:  v.GetString("calibrator.endpoint"),
		AccessKey: v.GetString("calibrator.access_key"),
		SecretKey: v.GetString("calibrator.secret_key"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Indexer = IndexerConfig{
		BatchSize:   v.GetInt("indexer.batch_size"),
		Concurrency: v.GetInt("indexer.concurrency"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
