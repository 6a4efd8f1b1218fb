package extensions

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"reactor.de/certprofile/internal/domain"
)

// Registry implements domain.ExtensionFactory with thread-safe extension registration
type Registry struct {
	mu         sync.RWMutex
	extensions map[domain.ExtensionName]func() domain.Extension
}

// NewRegistry creates a new extension registry with built-in extensions pre-registered
func NewRegistry() *Registry {
	r := &Registry{
		extensions: make(map[domain.ExtensionName]func() domain.Extension),
	}

	r.registerBuiltinExtensions()

	return r
}

// CreateExtension creates an extension by name, returns nil if unknown
func (r *Registry) CreateExtension(name domain.ExtensionName) domain.Extension {
	r.mu.RLock()
	creator, exists := r.extensions[name]
	r.mu.RUnlock()

	if !exists {
		return nil
	}

	return creator()
}

// RegisterExtension registers a new extension type
func (r *Registry) RegisterExtension(name domain.ExtensionName, creator func() domain.Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extensions[name] = creator
}

// ListExtensions returns all registered extension names in sorted order
func (r *Registry) ListExtensions() []domain.ExtensionName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.ExtensionName, 0, len(r.extensions))
	for name := range r.extensions {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// IsRegistered checks if an extension name is registered
func (r *Registry) IsRegistered(name domain.ExtensionName) bool {
	r.mu.RLock()
	_, exists := r.extensions[name]
	r.mu.RUnlock()

	return exists
}

// registerBuiltinExtensions registers one builder per vocabulary entry
func (r *Registry) registerBuiltinExtensions() {
	r.RegisterExtension(domain.ExtAuthorityInformationAccess, func() domain.Extension {
		return &AuthorityInformationAccessExtension{}
	})

	r.RegisterExtension(domain.ExtCRLDistributionPoints, func() domain.Extension {
		return NewCRLDistributionPointsExtension()
	})

	r.RegisterExtension(domain.ExtExtendedKeyUsage, func() domain.Extension {
		return &ExtendedKeyUsageExtension{}
	})

	r.RegisterExtension(domain.ExtFreshestCRL, func() domain.Extension {
		return NewFreshestCRLExtension()
	})

	r.RegisterExtension(domain.ExtIssuerAlternativeName, func() domain.Extension {
		return &IssuerAlternativeNameExtension{}
	})

	r.RegisterExtension(domain.ExtKeyUsage, func() domain.Extension {
		return &KeyUsageExtension{}
	})

	r.RegisterExtension(domain.ExtOCSPNoCheck, func() domain.Extension {
		return &OCSPNoCheckExtension{}
	})

	r.RegisterExtension(domain.ExtTLSFeature, func() domain.Extension {
		return &TLSFeatureExtension{}
	})
}

// normalizeToken folds the camelCase and snake_case spellings of a token
// onto one lookup key, e.g. "cRLSign" and "crl_sign" both become "crlsign".
func normalizeToken(token string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(token))
}

// splitLines returns the non-blank lines of a newline separated form value
func splitLines(value string) []string {
	var out []string
	for _, line := range strings.Split(value, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseURIs validates a newline separated list of URIs
func parseURIs(value, field string) ([]string, error) {
	uris := splitLines(value)
	for i, u := range uris {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] is not a valid URL: %v", field, i, err)
		}
		if parsed.Scheme == "" {
			return nil, fmt.Errorf("%s[%d] has no scheme: %s", field, i, u)
		}
	}
	return uris, nil
}
