package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Storage struct {
		Backend string `yaml:"backend"` // file | mongodb

		File struct {
			Dir string `yaml:"dir"`
		} `yaml:"file"`

		MongoDB struct {
			Host       string `yaml:"host"`
			Port       int    `yaml:"port"`
			Username   string `yaml:"username"`
			Password   string `yaml:"password"`
			Database   string `yaml:"database"`
			AuthSource string `yaml:"authSource"`
		} `yaml:"mongodb"`
	} `yaml:"storage"`

	Auth struct {
		UsersFile             string `yaml:"usersFile"`
		SessionTimeoutSeconds int    `yaml:"sessionTimeoutSeconds"`
	} `yaml:"auth"`

	Activity struct {
		Driver string `yaml:"driver"` // "" (disabled) | mysql | postgres

		Database struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Name     string `yaml:"name"`
			SSLMode  string `yaml:"sslMode"`
		} `yaml:"database"`
	} `yaml:"activity"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`

	AI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"ai"`
}

// Load baca file config.yaml, applying defaults and secret env overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.File.Dir == "" {
		c.Storage.File.Dir = "data/reports"
	}
	if c.Storage.MongoDB.Host == "" {
		c.Storage.MongoDB.Host = "localhost"
	}
	if c.Storage.MongoDB.Port == 0 {
		c.Storage.MongoDB.Port = 27017
	}
	if c.Storage.MongoDB.Database == "" {
		c.Storage.MongoDB.Database = "reportvault"
	}
	if c.Storage.MongoDB.AuthSource == "" {
		c.Storage.MongoDB.AuthSource = "admin"
	}
	if c.Auth.UsersFile == "" {
		c.Auth.UsersFile = "config/users.json"
	}
	if c.Auth.SessionTimeoutSeconds == 0 {
		c.Auth.SessionTimeoutSeconds = 3600
	}
	if c.Activity.Database.SSLMode == "" {
		c.Activity.Database.SSLMode = "disable"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MONGODB_PASSWORD"); v != "" {
		c.Storage.MongoDB.Password = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
}

// MongoURI builds the connection string for the document-store backend
func (c *Config) MongoURI() string {
	m := c.Storage.MongoDB
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/?authSource=%s",
			url.QueryEscape(m.Username), url.QueryEscape(m.Password),
			m.Host, m.Port, m.AuthSource)
	}
	return fmt.Sprintf("mongodb://%s:%d/", m.Host, m.Port)
}

// MySQLDSN for the activity log when driver is mysql
func (c *Config) MySQLDSN() string {
	d := c.Activity.Database
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// PostgresDSN for the activity log when driver is postgres
func (c *Config) PostgresDSN() string {
	d := c.Activity.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
