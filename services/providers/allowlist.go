package providers

import "sort"

// Allowlist is the immutable set of model qualified names permitted for use.
// It is constructed once at process start from configuration and is safe for
// concurrent use; membership checks are exact-string and case-sensitive.
type Allowlist struct {
	allowed map[string]bool
}

// NewAllowlist creates an allowlist from qualified-name strings. Blank
// entries are ignored.
func NewAllowlist(qualifiedNames []string) *Allowlist {
	allowed := make(map[string]bool, len(qualifiedNames))
	for _, name := range qualifiedNames {
		if name != "" {
			allowed[name] = true
		}
	}
	return &Allowlist{allowed: allowed}
}

// AssertAllowed succeeds silently when the identity's qualified name is a
// member of the set, and fails with a ConfigurationError carrying the
// rejected qualified name otherwise. This check runs before every provider
// attempt, never after.
func (a *Allowlist) AssertAllowed(identity ModelIdentity) error {
	if !a.allowed[identity.QualifiedName()] {
		return NewConfigurationError("model %s is not in the allowlist", identity.QualifiedName())
	}
	return nil
}

// IsEmpty reports whether no models are allowed at all. An empty allowlist
// is a configuration defect, not a per-model rejection.
func (a *Allowlist) IsEmpty() bool {
	return len(a.allowed) == 0
}

// Len returns the number of allowed qualified names.
func (a *Allowlist) Len() int {
	return len(a.allowed)
}

// QualifiedNames returns the allowed qualified names in sorted order,
// for logging.
func (a *Allowlist) QualifiedNames() []string {
	names := make([]string, 0, len(a.allowed))
	for name := range a.allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
