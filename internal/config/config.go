package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "AINOW_CONFIG"
	serverAddrEnv    = "AINOW_ADDR"
	groqAPIKeyEnv    = "GROQ_API_KEY"
	emailHostEnv     = "EMAIL_HOST"
	emailPortEnv     = "EMAIL_PORT"
	emailUserEnv     = "EMAIL_USER"
	emailPasswordEnv = "EMAIL_PASSWORD"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Feeds   []string      `yaml:"feeds"`
	Filter  FilterConfig  `yaml:"filter"`
	Digest  DigestConfig  `yaml:"digest"`
	Groq    GroqConfig    `yaml:"groq"`
	Email   EmailConfig   `yaml:"email"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// FilterConfig defines which articles count as relevant.
type FilterConfig struct {
	Keywords []string `yaml:"keywords"`
	Match    string   `yaml:"match"`
}

// DigestConfig carries the defaults offered on the send form.
type DigestConfig struct {
	MaxItems int  `yaml:"maxItems"`
	Preview  bool `yaml:"preview"`
	UseGroq  bool `yaml:"useGroq"`
}

// GroqConfig defines how to contact the Groq chat-completions API.
type GroqConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// EmailConfig wires all data required to send digests over SMTP.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. It never fails: unreadable or malformed files are logged
// and the defaults stand.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			// Unmarshal over a copy of the defaults so the file only
			// overrides the keys it names and a parse error leaves the
			// defaults untouched.
			fileCfg := cfg
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}
	if len(cfg.Filter.Keywords) == 0 {
		cfg.Filter.Keywords = defaultConfig().Filter.Keywords
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.User
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.Groq.APIKey = v
	}

	if v := os.Getenv(emailHostEnv); v != "" {
		c.Email.Host = v
	}

	if v := os.Getenv(emailPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err != nil {
			log.Printf("config: invalid %s %q: %v (keeping %d)", emailPortEnv, v, err, c.Email.Port)
		} else {
			c.Email.Port = port
		}
	}

	if v := os.Getenv(emailUserEnv); v != "" {
		c.Email.User = v
	}

	if v := os.Getenv(emailPasswordEnv); v != "" {
		c.Email.Password = v
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080"},
		Feeds: []string{
			"https://www.theverge.com/rss/index.xml",
			"https://www.technologyreview.com/feed/",
			"https://feeds.arstechnica.com/arstechnica/technology",
			"https://feeds.bloomberg.com/markets/news.rss",
			"https://feeds.wired.com/wired/index",
			"https://www.cnbc.com/id/100003114/device/rss/rss.html",
			"https://feeds.reuters.com/reuters/technologyNews",
			"https://www.engadget.com/feed.xml",
			"https://techcrunch.com/feed/",
			"https://feeds2.bloomberg.com/technology/news.rss",
		},
		Filter: FilterConfig{
			Keywords: []string{"ai", "artificial intelligence", "machine learning", "ml", "llm", "openai", "deep learning"},
			Match:    "substring",
		},
		Digest: DigestConfig{MaxItems: 15, Preview: true, UseGroq: false},
		Groq: GroqConfig{
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			Model:       "llama-3.1-8b-instant",
			APIKey:      "",
			Temperature: 0.5,
			MaxTokens:   800,
		},
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}
