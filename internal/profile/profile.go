// Package profile holds the built-in specialist registry, baked into the
// binary, and the recommendation lookup that picks profiles for a workspace.
package profile

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

// Complexity estimates how much reasoning a profile's artifacts need. It
// feeds capability-tier selection.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// KnowledgeSpec names one knowledge module a profile brings along.
type KnowledgeSpec struct {
	Name  string `yaml:"name"`
	Topic string `yaml:"topic"`
}

// Profile describes one specialist definition in the registry.
type Profile struct {
	Name       string          `yaml:"name"`
	Role       string          `yaml:"role"`
	Complexity Complexity      `yaml:"complexity"`
	Core       bool            `yaml:"core,omitempty"`
	Languages  []string        `yaml:"languages,omitempty"`
	Knowledge  []KnowledgeSpec `yaml:"knowledge,omitempty"`
}

//go:embed profiles.yaml
var embeddedRegistry []byte

type registryFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// Registry is the loaded profile set, in file order.
type Registry struct {
	profiles []Profile
}

// LoadRegistry parses the baked-in registry.
func LoadRegistry() (*Registry, error) {
	var rf registryFile
	if err := yaml.Unmarshal(embeddedRegistry, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse embedded profile registry: %w", err)
	}
	if len(rf.Profiles) == 0 {
		return nil, fmt.Errorf("embedded profile registry is empty")
	}
	for _, p := range rf.Profiles {
		if p.Name == "" || p.Role == "" {
			return nil, fmt.Errorf("embedded profile registry has an unnamed profile")
		}
	}
	return &Registry{profiles: rf.Profiles}, nil
}

// All returns every registered profile in file order.
func (r *Registry) All() []Profile {
	return r.profiles
}

// ByName looks a profile up by its registry name.
func (r *Registry) ByName(name string) (Profile, bool) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Recommend returns the core profiles plus every profile matching a language
// the scan found. Pure table lookup, registry order, no scoring; the goal
// text does not influence the result.
func (r *Registry) Recommend(goal string, result *scan.Result) []Profile {
	found := make(map[string]bool)
	if result != nil {
		for lang := range result.Languages {
			found[lang] = true
		}
	}

	var out []Profile
	for _, p := range r.profiles {
		if p.Core {
			out = append(out, p)
			continue
		}
		for _, lang := range p.Languages {
			if found[lang] {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
