package casdoor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config describes one Casdoor application the SDK talks to.
type Config struct {
	// Endpoint is the Casdoor server URL, e.g. http://localhost:8000.
	Endpoint string `toml:"endpoint" yaml:"endpoint"`

	ClientID     string `toml:"client_id" yaml:"client_id"`
	ClientSecret string `toml:"client_secret" yaml:"client_secret"`

	// Certificate is the PEM content of the application's cert. It is only
	// used to verify tokens locally, never for outbound TLS.
	Certificate string `toml:"certificate" yaml:"certificate"`

	OrgName string `toml:"org_name" yaml:"org_name"`

	// AppName is optional. Empty means no application is configured.
	AppName string `toml:"app_name" yaml:"app_name"`
}

var (
	ErrConfigEndpoint     = errors.New("casdoor: endpoint is required")
	ErrConfigClientID     = errors.New("casdoor: client_id is required")
	ErrConfigClientSecret = errors.New("casdoor: client_secret is required")
	ErrConfigOrgName      = errors.New("casdoor: org_name is required")
)

// NewConfig builds a Config with the certificate normalized to a public key
// PEM label.
func NewConfig(endpoint, clientID, clientSecret, certificate, orgName, appName string) Config {
	return Config{
		Endpoint:     endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Certificate:  certToPublicKey(certificate),
		OrgName:      orgName,
		AppName:      appName,
	}
}

// LoadConfigFile reads a TOML or YAML config, picked by file extension.
func LoadConfigFile(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadConfigYAML(path)
	case ".toml", "":
		return LoadConfigTOML(path)
	default:
		return Config{}, fmt.Errorf("casdoor: unsupported config format %q", filepath.Ext(path))
	}
}

func LoadConfigTOML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("casdoor: read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("casdoor: parse toml config: %w", err)
	}

	cfg.Certificate = certToPublicKey(cfg.Certificate)
	return cfg, nil
}

func LoadConfigYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("casdoor: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("casdoor: parse yaml config: %w", err)
	}

	cfg.Certificate = certToPublicKey(cfg.Certificate)
	return cfg, nil
}

// Validate checks the fields every request needs.
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, ErrConfigEndpoint)
	}
	if c.ClientID == "" {
		errs = append(errs, ErrConfigClientID)
	}
	if c.ClientSecret == "" {
		errs = append(errs, ErrConfigClientSecret)
	}
	if c.OrgName == "" {
		errs = append(errs, ErrConfigOrgName)
	}
	return errors.Join(errs...)
}

// certToPublicKey relabels a certificate PEM the way Casdoor SDKs always
// have. The key parser does not depend on the label, so a real X.509
// certificate still verifies.
func certToPublicKey(cert string) string {
	return strings.ReplaceAll(cert, "CERTIFICATE", "PUBLIC KEY")
}
