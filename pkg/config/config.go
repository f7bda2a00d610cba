package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from YAML with env
// overrides applied on top (env wins over file, flags win over both).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Logging  LoggingConfig  `yaml:"logging"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// StorageConfig holds the Pebble path.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// AdvisorConfig configures the optional AI advisory backend. An empty
// APIKey means no backend; the engine runs with placeholder advisories.
type AdvisorConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SnapshotConfig controls the scheduled audit-snapshot writer. Disabled by
// default; the engine itself owns no timers.
type SnapshotConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Cron     string   `yaml:"cron"`
	Dir      string   `yaml:"dir"`
	Projects []string `yaml:"projects"`
}

// SecurityConfig holds the per-client rate limit for the HTTP surface.
type SecurityConfig struct {
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Load reads config from a YAML file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses the command-line flags, returning
// their values plus which flags were explicitly set.
func ParseCommandFlags() (addr string, dbPath string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.redline", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dbPtr, *cfgPtr, setFlags
}

// ResolveConfigPath decides the config file path: explicit flag wins, then
// the REDLINE_CONFIG env var, then the flag default.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("REDLINE_CONFIG"); p != "" {
		return p
	}
	return flagPath
}

// LoadEnvOverrides applies REDLINE_* environment overrides onto cfg and
// reports whether any were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false

	if v := os.Getenv("REDLINE_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("REDLINE_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("REDLINE_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REDLINE_ADVISOR_API_KEY"); v != "" {
		envUsed = true
		cfg.Advisor.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Advisor.APIKey == "" {
		envUsed = true
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("REDLINE_ADVISOR_MODEL"); v != "" {
		envUsed = true
		cfg.Advisor.Model = v
	}
	if v := os.Getenv("REDLINE_SNAPSHOT_CRON"); v != "" {
		envUsed = true
		cfg.Snapshot.Enabled = true
		cfg.Snapshot.Cron = v
	}
	if v := os.Getenv("REDLINE_SNAPSHOT_DIR"); v != "" {
		envUsed = true
		cfg.Snapshot.Dir = v
	}
	if v := os.Getenv("REDLINE_SNAPSHOT_PROJECTS"); v != "" {
		envUsed = true
		cfg.Snapshot.Projects = parseList(v)
	}
	if v := os.Getenv("REDLINE_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("REDLINE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	return envUsed
}

// LoadEffective loads config from the given path and applies environment
// overrides. A missing file is not fatal; env and defaults still apply.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}

func parseList(v string) []string {
	var parts []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
