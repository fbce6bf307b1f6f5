package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ProjectID   string   `envconfig:"PROJECTID"`
	Region      string   `envconfig:"REGION" default:"us-central1"`
	LogLevel    string   `envconfig:"LOGLEVEL" default:"info"`
	Port        string   `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORSORIGINS" default:"http://localhost:5173"`

	// Up to three rotating keys per provider. Values may be Secret Manager
	// resource names and are resolved during bootstrap.
	FinnhubKey1 string `envconfig:"FINNHUBKEY1"`
	FinnhubKey2 string `envconfig:"FINNHUBKEY2"`
	FinnhubKey3 string `envconfig:"FINNHUBKEY3"`
	GeminiKey1  string `envconfig:"GEMINIKEY1"`
	GeminiKey2  string `envconfig:"GEMINIKEY2"`
	GeminiKey3  string `envconfig:"GEMINIKEY3"`

	GeminiModel string `envconfig:"GEMINIMODEL" default:"gemini-2.0-flash"`
	// VertexModel enables the Vertex AI generator as the last fallback.
	VertexModel string `envconfig:"VERTEXMODEL"`

	RedisAddr     string `envconfig:"REDISADDR"`
	RedisPassword string `envconfig:"REDISPASSWORD"`

	NewsTTL       time.Duration `envconfig:"NEWSTTL" default:"30m"`
	IntelTTL      time.Duration `envconfig:"INTELTTL" default:"168h"`
	TrendTTL      time.Duration `envconfig:"TRENDTTL" default:"72h"`
	StockTTL      time.Duration `envconfig:"STOCKTTL" default:"5m"`
	GenRetryDelay time.Duration `envconfig:"GENRETRYDELAY" default:"2s"`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FinnhubKeys returns the configured Finnhub keys in rotation order.
func (c *Config) FinnhubKeys() []string {
	return nonEmpty(c.FinnhubKey1, c.FinnhubKey2, c.FinnhubKey3)
}

// GeminiKeys returns the configured Gemini keys in rotation order.
func (c *Config) GeminiKeys() []string {
	return nonEmpty(c.GeminiKey1, c.GeminiKey2, c.GeminiKey3)
}

// SecretFields exposes the key fields so bootstrap can resolve secret references in place.
func (c *Config) SecretFields() []*string {
	return []*string{
		&c.FinnhubKey1, &c.FinnhubKey2, &c.FinnhubKey3,
		&c.GeminiKey1, &c.GeminiKey2, &c.GeminiKey3,
		&c.RedisPassword,
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
