package profile

import "maps"

// Profile is the static configuration of one supported model.
type Profile struct {
	Key         string
	Name        string
	Template    string
	TokenizerID string
	BOS         string
	EOS         string
	Rules       []Rule
	Vars        map[string]any
}

// DefaultVars returns a copy of the profile's template control variables.
func (p Profile) DefaultVars() map[string]any {
	out := make(map[string]any, len(p.Vars))
	maps.Copy(out, p.Vars)
	return out
}

// HasVar reports whether the template reads the named control variable.
func (p Profile) HasVar(name string) bool {
	_, ok := p.Vars[name]
	return ok
}
