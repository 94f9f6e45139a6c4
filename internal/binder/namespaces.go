package binder

import (
	"fmt"
	"maps"
	"strings"

	"config-binder/internal/subst"
)

// Namespaces builds the template namespaces visible at generation time.
// environ is in os.Environ form. static entries are added last and may not
// replace the built-in namespaces.
func Namespaces(environ []string, properties map[string]string, static map[string]map[string]string) (subst.Namespaces, error) {
	env := make(map[string]string, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = v
	}

	props := maps.Clone(properties)
	if props == nil {
		props = map[string]string{}
	}

	ns := subst.Namespaces{
		NamespaceEnvironment:      env,
		NamespaceEnv:              env,
		NamespaceSystemProperties: props,
		NamespaceSys:              props,
	}

	for name, values := range static {
		if _, exists := ns[name]; exists {
			return nil, fmt.Errorf("namespace %q is reserved", name)
		}

		if strings.Contains(name, ".") || name == "" {
			return nil, fmt.Errorf("invalid namespace name %q", name)
		}

		ns[name] = maps.Clone(values)
	}

	return ns, nil
}

// ParseProperties parses key=value pairs, as given to -D.
func ParseProperties(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))

	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", p)
		}

		out[strings.TrimSpace(k)] = v
	}

	return out, nil
}
