package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
)

const (
	DefaultConfigPath  = "/etc/clientauthn"
	ConfigFileName     = "clientauthn.yml"
	DefaultClientsFile = "/etc/clientauthn/clients.yml"
)

// Client directory backends
const (
	DirectoryFile     = "file"
	DirectoryDatabase = "database"
)

// ValidDirectories is the list of valid client directory backends
var ValidDirectories = []string{DirectoryFile, DirectoryDatabase}

// Config holds all clientauthn configuration settings
type Config struct {
	// ClientDirectory selects where registered clients are looked up
	ClientDirectory string `yaml:"client_directory" json:"client_directory"`

	// ClientsFile is the YAML clients file used by the file directory
	ClientsFile string `yaml:"clients_file" json:"clients_file"`

	// AuthenticationMethods lists the client authentication methods accepted
	AuthenticationMethods []string `yaml:"authentication_methods" json:"authentication_methods"`

	// AuditEnabled turns audit logging of authentication decisions on or off
	AuditEnabled *bool `yaml:"audit_enabled" json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	enabled := true
	return &Config{
		ClientDirectory: DirectoryFile,
		ClientsFile:     DefaultClientsFile,
		AuthenticationMethods: []string{
			string(model.MethodClientSecretBasic),
			string(model.MethodClientSecretPost),
		},
		AuditEnabled: &enabled,
		sources:      make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("CLIENTAUTHN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"client_directory", "clients_file",
		"authentication_methods", "audit_enabled",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.ClientDirectory != "" {
		c.ClientDirectory = file.ClientDirectory
		c.sources["client_directory"] = "file"
	}
	if file.ClientsFile != "" {
		c.ClientsFile = file.ClientsFile
		c.sources["clients_file"] = "file"
	}
	if len(file.AuthenticationMethods) > 0 {
		c.AuthenticationMethods = file.AuthenticationMethods
		c.sources["authentication_methods"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("CLIENTAUTHN_CLIENT_DIRECTORY"); val != "" {
		c.ClientDirectory = strings.TrimSpace(val)
		c.sources["client_directory"] = "environment"
	}
	if val := os.Getenv("CLIENTAUTHN_CLIENTS_FILE"); val != "" {
		c.ClientsFile = val
		c.sources["clients_file"] = "environment"
	}
	if val := os.Getenv("CLIENTAUTHN_AUTHENTICATION_METHODS"); val != "" {
		c.AuthenticationMethods = splitAndTrim(val)
		c.sources["authentication_methods"] = "environment"
	}
	if val := os.Getenv("CLIENTAUTHN_AUDIT_ENABLED"); val != "" {
		enabled := val == "true" || val == "1"
		c.AuditEnabled = &enabled
		c.sources["audit_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsAuditEnabled reports whether audit logging is on
func (c *Config) IsAuditEnabled() bool {
	return c.AuditEnabled == nil || *c.AuditEnabled
}

// Methods returns the configured authentication methods
func (c *Config) Methods() ([]model.AuthenticationMethod, error) {
	methods := make([]model.AuthenticationMethod, 0, len(c.AuthenticationMethods))
	for _, name := range c.AuthenticationMethods {
		m, err := model.ParseAuthenticationMethod(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !slices.Contains(ValidDirectories, c.ClientDirectory) {
		return fmt.Errorf("invalid client_directory value: %s", c.ClientDirectory)
	}
	if c.ClientDirectory == DirectoryFile && c.ClientsFile == "" {
		return fmt.Errorf("clients_file is required when client_directory is %s", DirectoryFile)
	}
	if len(c.AuthenticationMethods) == 0 {
		return fmt.Errorf("authentication_methods cannot be empty")
	}
	if _, err := c.Methods(); err != nil {
		return fmt.Errorf("invalid authentication_methods value: %w", err)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "client_directory", Value: c.ClientDirectory, Source: c.Source("client_directory")},
		{Name: "clients_file", Value: c.ClientsFile, Source: c.Source("clients_file")},
		{Name: "authentication_methods", Value: strings.Join(c.AuthenticationMethods, ","), Source: c.Source("authentication_methods")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.IsAuditEnabled()), Source: c.Source("audit_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
