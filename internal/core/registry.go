package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// GenericProviderID is the id of the catch-all profile that terminates every registry.
const GenericProviderID = "generic"

// AutoDetect is the provider hint that requests header-based detection.
const AutoDetect = "auto"

// ErrDuplicateProvider is returned when registering an id that already exists.
var ErrDuplicateProvider = errors.New("provider already registered")

// MerchantPattern rewrites any merchant containing Pattern to Replacement.
// Patterns are upper case. A '*' marks where a processor suffix usually follows.
type MerchantPattern struct {
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// CardProvider is a card issuer's expected column layout and merchant rewrites.
type CardProvider struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Description      string            `yaml:"description" json:"description"`
	DateColumns      []string          `yaml:"date_columns" json:"-"`
	AmountColumns    []string          `yaml:"amount_columns" json:"-"`
	MerchantColumns  []string          `yaml:"merchant_columns" json:"-"`
	CategoryColumns  []string          `yaml:"category_columns" json:"-"`
	ReferenceColumns []string          `yaml:"reference_columns" json:"-"`
	MerchantPatterns []MerchantPattern `yaml:"merchant_patterns" json:"-"`
}

// detectionColumns returns the synonyms that count towards detection.
// Category and reference columns are too generic to discriminate issuers.
func (p CardProvider) detectionColumns() []string {
	cols := make([]string, 0, len(p.DateColumns)+len(p.AmountColumns)+len(p.MerchantColumns))
	cols = append(cols, p.DateColumns...)
	cols = append(cols, p.AmountColumns...)
	cols = append(cols, p.MerchantColumns...)
	return cols
}

// Registry is an ordered catalog of provider profiles.
// Order is significant: it breaks detection ties. The generic profile is always last.
type Registry struct {
	mu        sync.RWMutex
	providers []CardProvider
}

// NewRegistry creates a registry from providers in the given order.
// A generic profile must be present; it is moved to the end if necessary.
func NewRegistry(providers ...CardProvider) (*Registry, error) {
	r := &Registry{}
	var generic *CardProvider

	seen := make(map[string]bool, len(providers))
	for i := range providers {
		p := providers[i]
		if p.ID == "" {
			return nil, fmt.Errorf("provider at position %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.ID)
		}
		seen[p.ID] = true

		if p.ID == GenericProviderID {
			generic = &p
			continue
		}
		r.providers = append(r.providers, p)
	}

	if generic == nil {
		return nil, fmt.Errorf("registry requires a %q provider", GenericProviderID)
	}
	r.providers = append(r.providers, *generic)

	return r, nil
}

// DefaultRegistry returns a fresh registry holding the built-in catalog.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(builtinProviders()...)
	if err != nil {
		panic(fmt.Sprintf("built-in provider catalog: %v", err))
	}
	return r
}

// Register adds a provider just before the generic profile.
func (r *Registry) Register(p CardProvider) error {
	return r.RegisterAll(p)
}

// RegisterAll adds providers, in order, just before the generic profile.
// Every id is checked first; on error the registry is left unchanged.
func (r *Registry) RegisterAll(providers ...CardProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(r.providers)+len(providers))
	for _, existing := range r.providers {
		seen[existing.ID] = true
	}
	for _, p := range providers {
		if p.ID == "" {
			return fmt.Errorf("provider has no id")
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateProvider, p.ID)
		}
		seen[p.ID] = true
	}

	last := len(r.providers) - 1
	merged := make([]CardProvider, 0, len(r.providers)+len(providers))
	merged = append(merged, r.providers[:last]...)
	merged = append(merged, providers...)
	r.providers = append(merged, r.providers[last])
	return nil
}

// Get returns a provider by id.
func (r *Registry) Get(id string) (CardProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.ID == id {
			return p, true
		}
	}
	return CardProvider{}, false
}

// All returns every provider in registry order.
func (r *Registry) All() []CardProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CardProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Len returns the number of registered providers, generic included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// Generic returns the catch-all profile.
func (r *Registry) Generic() CardProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[len(r.providers)-1]
}

// Detect scores every non-generic profile against headers and returns the best.
//
// The score is the number of date, amount and merchant synonyms found verbatim
// among the lower-cased, trimmed headers. Only a strictly higher score replaces
// the current best, so the earliest profile wins ties. If nothing scores above
// zero the generic profile is returned.
func (r *Registry) Detect(headers []string) CardProvider {
	normalized := make(map[string]bool, len(headers))
	for _, h := range headers {
		normalized[strings.ToLower(strings.TrimSpace(h))] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := r.providers[len(r.providers)-1]
	bestScore := 0

	for _, p := range r.providers {
		if p.ID == GenericProviderID {
			continue
		}

		score := 0
		for _, col := range p.detectionColumns() {
			if normalized[strings.ToLower(col)] {
				score++
			}
		}

		if score > bestScore {
			bestScore = score
			best = p
		}
	}

	return best
}

// Resolve picks the provider for a run. A known id overrides detection;
// an empty, "auto" or unknown id falls back to Detect.
func (r *Registry) Resolve(id string, headers []string) CardProvider {
	id = strings.TrimSpace(id)
	if id != "" && id != AutoDetect {
		if p, ok := r.Get(id); ok {
			return p
		}
	}
	return r.Detect(headers)
}
