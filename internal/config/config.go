package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	PageSpeed struct {
		BaseURL        string `yaml:"baseURL"`
		APIKey         string `yaml:"apiKey"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"pagespeed"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Audit struct {
		FetchTimeoutSeconds int `yaml:"fetchTimeoutSeconds"`
		StaleAfterMinutes   int `yaml:"staleAfterMinutes"`
		ReapEveryMinutes    int `yaml:"reapEveryMinutes"`
	} `yaml:"audit"`

	Auth struct {
		// tenant -> API key; empty map disables auth
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load reads config.yaml, then lets env vars override the secrets so they
// never have to live in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PAGESPEED_API_KEY"); v != "" {
		cfg.PageSpeed.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	return &cfg, nil
}

// MySQLDSN builds the DSN for the mysql driver
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for the postgres driver
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}

// FetchTimeout for page/manifest fetches
func (c *Config) FetchTimeout() time.Duration {
	if c.Audit.FetchTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Audit.FetchTimeoutSeconds) * time.Second
}

// PageSpeedTimeout for the external performance call
func (c *Config) PageSpeedTimeout() time.Duration {
	if c.PageSpeed.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.PageSpeed.TimeoutSeconds) * time.Second
}

// StaleAfter is the heartbeat age that makes a running job reapable
func (c *Config) StaleAfter() time.Duration {
	if c.Audit.StaleAfterMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Audit.StaleAfterMinutes) * time.Minute
}

// ReapEvery is the sweep interval
func (c *Config) ReapEvery() time.Duration {
	if c.Audit.ReapEveryMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(c.Audit.ReapEveryMinutes) * time.Minute
}
