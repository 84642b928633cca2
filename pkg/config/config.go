// Package config provides configuration file support for zonectl.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/fsutil"
)

// DefaultPath is where the host-wide configuration lives.
const DefaultPath = "/etc/zonectl/config.yaml"

// Config represents the zonectl configuration.
type Config struct {
	Tools            ToolsConfig    `yaml:"tools" toml:"tools" json:"tools"`
	Templates        TemplateConfig `yaml:"templates" toml:"templates" json:"templates"`
	ZonepathRoot     string         `yaml:"zonepath_root" toml:"zonepath_root" json:"zonepath_root"`
	RequiredProfiles [][]string     `yaml:"required_profiles" toml:"required_profiles" json:"required_profiles"`
	Logging          LoggingConfig  `yaml:"logging" toml:"logging" json:"logging"`
	Audit            AuditConfig    `yaml:"audit" toml:"audit" json:"audit"`
}

// ToolsConfig holds the absolute paths of the external binaries.
type ToolsConfig struct {
	Zoneadm  string `yaml:"zoneadm" toml:"zoneadm" json:"zoneadm"`
	Zonecfg  string `yaml:"zonecfg" toml:"zonecfg" json:"zonecfg"`
	Zlogin   string `yaml:"zlogin" toml:"zlogin" json:"zlogin"`
	Pfexec   string `yaml:"pfexec" toml:"pfexec" json:"pfexec"`
	Profiles string `yaml:"profiles" toml:"profiles" json:"profiles"`
}

// TemplateConfig locates zone configuration templates.
type TemplateConfig struct {
	Dir    string `yaml:"dir" toml:"dir" json:"dir"`
	Suffix string `yaml:"suffix" toml:"suffix" json:"suffix"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"` // json, text
}

// AuditConfig configures the operation journal.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	Path    string `yaml:"path" toml:"path" json:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			Zoneadm:  "/usr/sbin/zoneadm",
			Zonecfg:  "/usr/sbin/zonecfg",
			Zlogin:   "/usr/sbin/zlogin",
			Pfexec:   "/usr/bin/pfexec",
			Profiles: "/usr/bin/profiles",
		},
		Templates: TemplateConfig{
			Dir:    "/etc/zones",
			Suffix: ".xml",
		},
		ZonepathRoot: "/zones",
		RequiredProfiles: [][]string{
			{"Primary Administrator"},
			{"Zone Management"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    "/var/log/zonectl/audit.jsonl",
		},
	}
}

// Load loads configuration from path and applies ZONECTL_* environment
// overrides. Returns default config if file doesn't exist.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is OK, use defaults
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	case isTOML(path):
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from an env file into the process
// environment. Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from ZONECTL_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	overrides := map[string]*string{
		"ZONECTL_ZONEADM":      &c.Tools.Zoneadm,
		"ZONECTL_ZONECFG":      &c.Tools.Zonecfg,
		"ZONECTL_ZLOGIN":       &c.Tools.Zlogin,
		"ZONECTL_PFEXEC":       &c.Tools.Pfexec,
		"ZONECTL_PROFILES":     &c.Tools.Profiles,
		"ZONECTL_TEMPLATE_DIR": &c.Templates.Dir,
		"ZONECTL_LOG_LEVEL":    &c.Logging.Level,
	}
	for key, field := range overrides {
		if v := getenv(key); v != "" {
			*field = v
		}
	}
}

// Validate checks the configuration for values the zone layer cannot use.
func (c *Config) Validate() error {
	tools := map[string]string{
		"zoneadm":  c.Tools.Zoneadm,
		"zonecfg":  c.Tools.Zonecfg,
		"zlogin":   c.Tools.Zlogin,
		"pfexec":   c.Tools.Pfexec,
		"profiles": c.Tools.Profiles,
	}
	for name, p := range tools {
		if p == "" {
			return errclass.ErrConfigInvalid.WithMessagef("tools.%s must be set", name)
		}
		if !filepath.IsAbs(p) {
			return errclass.ErrConfigInvalid.WithMessagef("tools.%s must be an absolute path: %s", name, p)
		}
	}
	if c.Templates.Suffix == "" {
		return errclass.ErrConfigInvalid.WithMessage("templates.suffix must be set")
	}
	for i, term := range c.RequiredProfiles {
		if len(term) == 0 {
			return errclass.ErrConfigInvalid.WithMessagef("required_profiles[%d] is empty", i)
		}
		for _, name := range term {
			if strings.TrimSpace(name) == "" {
				return errclass.ErrConfigInvalid.WithMessagef("required_profiles[%d] contains a blank name", i)
			}
		}
	}
	return nil
}

// Save writes configuration to path, as TOML for .toml paths and YAML
// otherwise.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Keys lists the settable configuration keys.
func Keys() []string {
	return []string{
		"tools.zoneadm", "tools.zonecfg", "tools.zlogin", "tools.pfexec", "tools.profiles",
		"templates.dir", "templates.suffix", "zonepath_root",
		"logging.level", "logging.format", "audit.enabled", "audit.path",
	}
}

func (c *Config) stringField(key string) (*string, bool) {
	switch key {
	case "tools.zoneadm":
		return &c.Tools.Zoneadm, true
	case "tools.zonecfg":
		return &c.Tools.Zonecfg, true
	case "tools.zlogin":
		return &c.Tools.Zlogin, true
	case "tools.pfexec":
		return &c.Tools.Pfexec, true
	case "tools.profiles":
		return &c.Tools.Profiles, true
	case "templates.dir":
		return &c.Templates.Dir, true
	case "templates.suffix":
		return &c.Templates.Suffix, true
	case "zonepath_root":
		return &c.ZonepathRoot, true
	case "logging.level":
		return &c.Logging.Level, true
	case "logging.format":
		return &c.Logging.Format, true
	case "audit.path":
		return &c.Audit.Path, true
	}
	return nil, false
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	if key == "audit.enabled" {
		return strconv.FormatBool(c.Audit.Enabled), nil
	}
	if f, ok := c.stringField(key); ok {
		return *f, nil
	}
	return "", errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
}

// Set sets a configuration value by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "audit.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("audit.enabled must be true or false: %s", value)
		}
		c.Audit.Enabled = b
		return nil
	case "logging.format":
		if value != "json" && value != "text" {
			return errclass.ErrConfigInvalid.WithMessagef("logging.format must be json or text: %s", value)
		}
	}
	f, ok := c.stringField(key)
	if !ok {
		return errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
	}
	old := *f
	*f = value
	if err := c.Validate(); err != nil {
		*f = old
		return err
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
