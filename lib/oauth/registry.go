package oauth

import (
	"fmt"
	"sort"
)

// NamedAuthenticator is an IAuthenticator registered under a name.
type NamedAuthenticator interface {
	IAuthenticator
	Name() string
}

// Registry holds the configured authenticators and allows lookup by name,
// typically to route /auth/{name}/... requests.
type Registry struct {
	authenticators map[string]NamedAuthenticator
}

// NewRegistry registers the given authenticators by name.
// If two share the same name, the last one wins.
func NewRegistry(list ...NamedAuthenticator) *Registry {
	m := make(map[string]NamedAuthenticator, len(list))
	for _, a := range list {
		m[a.Name()] = a
	}
	return &Registry{authenticators: m}
}

// Get returns the authenticator by name or an error if not registered.
func (r *Registry) Get(name string) (NamedAuthenticator, error) {
	a, ok := r.authenticators[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return a, nil
}

// Names returns the sorted list of registered names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.authenticators))
	for name := range r.authenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
