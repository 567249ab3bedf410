package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProviderFile is the YAML document that declares custom provider profiles.
//
//	providers:
//	  - id: acme
//	    name: Acme Corporate Card
//	    date_columns: [posted on]
//	    amount_columns: [charge]
//	    merchant_columns: [payee name]
//	    merchant_patterns:
//	      - {pattern: "ACME*TRAVEL", replacement: "Acme Travel"}
type ProviderFile struct {
	Providers []CardProvider `yaml:"providers"`
}

// ParseProviders decodes a provider file. Merchant patterns are upper-cased
// so they match the upper-cased merchant value.
func ParseProviders(data []byte) ([]CardProvider, error) {
	var file ProviderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderFile, err)
	}

	for i := range file.Providers {
		p := &file.Providers[i]
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: provider %d has no id", ErrInvalidProviderFile, i+1)
		}
		if p.ID == GenericProviderID || p.ID == AutoDetect {
			return nil, fmt.Errorf("%w: id %q is reserved", ErrInvalidProviderFile, p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		for j := range p.MerchantPatterns {
			p.MerchantPatterns[j].Pattern = strings.ToUpper(strings.TrimSpace(p.MerchantPatterns[j].Pattern))
			if p.MerchantPatterns[j].Pattern == "" {
				return nil, fmt.Errorf("%w: provider %q has an empty merchant pattern", ErrInvalidProviderFile, p.ID)
			}
		}
	}

	return file.Providers, nil
}

// LoadProviderFile reads and decodes the provider file at path.
func LoadProviderFile(path string) ([]CardProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderFile, err)
	}
	return ParseProviders(data)
}

// RegisterFile loads path and registers its providers in file order.
// Nothing is registered if any id collides. An empty path is a no-op.
func (r *Registry) RegisterFile(path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	providers, err := LoadProviderFile(path)
	if err != nil {
		return 0, err
	}
	if err := r.RegisterAll(providers...); err != nil {
		return 0, fmt.Errorf("register %s: %w", path, err)
	}
	return len(providers), nil
}
