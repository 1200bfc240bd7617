// Package profile is the model registry: per-model template references,
// sentence boundary tokens, highlighting rules and template control
// variables. The bundled set lives in profiles.yaml; an extra YAML or TOML
// file may add or replace models without code changes.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/sahilm/fuzzy"
)

//go:embed profiles.yaml
var builtinProfiles []byte

// ErrUnknownModel is returned when a model key is not registered.
var ErrUnknownModel = errors.New("unknown model")

// Registry is an immutable, ordered set of profiles.
type Registry struct {
	order      []string
	profiles   map[string]Profile
	defaultKey string
}

// NewRegistry builds a registry from profiles in order. Later profiles with
// a key already present replace the earlier one in place. The first profile
// is the default.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if p.Key == "" {
			return nil, errors.New("profile with empty key")
		}
		if _, ok := r.profiles[p.Key]; !ok {
			r.order = append(r.order, p.Key)
		}
		r.profiles[p.Key] = p
	}
	if len(r.order) == 0 {
		return nil, errors.New("no profiles")
	}
	r.defaultKey = r.order[0]
	return r, nil
}

// Builtin returns the bundled profiles.
func Builtin() (*Registry, error) {
	profiles, def, err := Parse(builtinProfiles, "yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin profiles: %w", err)
	}
	r, err := NewRegistry(profiles...)
	if err != nil {
		return nil, err
	}
	return r, r.SetDefault(def)
}

// Load returns the bundled profiles merged with the profiles in extraPath.
// An empty extraPath loads only the bundled set.
func Load(extraPath string) (*Registry, error) {
	base, err := Builtin()
	if err != nil || extraPath == "" {
		return base, err
	}
	extra, def, err := ReadFile(extraPath)
	if err != nil {
		return nil, err
	}
	merged, err := NewRegistry(append(base.Profiles(), extra...)...)
	if err != nil {
		return nil, err
	}
	if def == "" {
		def = base.Default()
	}
	return merged, merged.SetDefault(def)
}

// SetDefault changes the default model. An empty key is a no-op.
func (r *Registry) SetDefault(key string) error {
	if key == "" {
		return nil
	}
	if _, ok := r.profiles[key]; !ok {
		return fmt.Errorf("default %w: %s", ErrUnknownModel, key)
	}
	r.defaultKey = key
	return nil
}

// Default returns the default model key.
func (r *Registry) Default() string { return r.defaultKey }

// Lookup returns the profile registered under key.
func (r *Registry) Lookup(key string) (Profile, bool) {
	p, ok := r.profiles[key]
	return p, ok
}

// Get is Lookup with an error that names the closest registered key.
func (r *Registry) Get(key string) (Profile, error) {
	if p, ok := r.profiles[key]; ok {
		return p, nil
	}
	if s := r.Suggest(key); s != "" {
		return Profile{}, fmt.Errorf("%w: %s (did you mean %q?)", ErrUnknownModel, key, s)
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUnknownModel, key)
}

// Keys returns the registered model keys in registration order.
func (r *Registry) Keys() []string { return slices.Clone(r.order) }

// Profiles returns all profiles in registration order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.profiles[k])
	}
	return out
}

// Suggest returns the registered key that best fuzzy-matches key, or "".
func (r *Registry) Suggest(key string) string {
	if key == "" {
		return ""
	}
	matches := fuzzy.Find(key, r.order)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
