package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProvidersFile is the YAML layout of PROVIDERS_CONFIG_FILE.
//
//	providers:
//	  guardian:
//	    base_url: https://content.guardianapis.com
//	    timeout: 15s
//	    daily_quota: 5000
//	    page_size: 20
//
// API keys are never read from the file.
type ProvidersFile struct {
	Providers map[string]ProviderOverride `yaml:"providers"`
}

// ProviderOverride holds optional per-provider settings; zero values keep the default.
type ProviderOverride struct {
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	DailyQuota int    `yaml:"daily_quota"`
	Burst      int    `yaml:"burst"`
	PageSize   int    `yaml:"page_size"`
}

// LoadProvidersFile reads and validates the overrides file.
// The path comes from the operator's environment, not from request input.
func LoadProvidersFile(path string) (*ProvidersFile, error) {
	// #nosec G304 -- operator supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var file ProvidersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("providers config validation failed: %w", err)
	}
	return &file, nil
}

func (f *ProvidersFile) validate() error {
	for name, o := range f.Providers {
		if _, ok := (&ProvidersConfig{}).ByName(name); !ok {
			return fmt.Errorf("unknown provider %q", name)
		}
		if o.Timeout != "" {
			d, err := time.ParseDuration(o.Timeout)
			if err != nil {
				return fmt.Errorf("%s: invalid timeout %q: %w", name, o.Timeout, err)
			}
			if d <= 0 {
				return fmt.Errorf("%s: timeout must be positive", name)
			}
		}
		if o.DailyQuota < 0 || o.Burst < 0 || o.PageSize < 0 {
			return fmt.Errorf("%s: daily_quota, burst and page_size must not be negative", name)
		}
	}
	return nil
}

// ApplyFile loads path and overlays it on p.
func (p *ProvidersConfig) ApplyFile(path string) error {
	file, err := LoadProvidersFile(path)
	if err != nil {
		return err
	}
	p.Apply(file)
	return nil
}

// Apply overlays the non-zero fields of file on p.
func (p *ProvidersConfig) Apply(file *ProvidersFile) {
	for name, o := range file.Providers {
		pc, ok := p.ByName(name)
		if !ok {
			continue
		}
		if o.BaseURL != "" {
			pc.BaseURL = o.BaseURL
		}
		if d, err := time.ParseDuration(o.Timeout); err == nil && d > 0 {
			pc.Timeout = d
		}
		if o.DailyQuota > 0 {
			pc.DailyQuota = o.DailyQuota
		}
		if o.Burst > 0 {
			pc.Burst = o.Burst
		}
		if o.PageSize > 0 {
			pc.PageSize = o.PageSize
		}
	}
}
