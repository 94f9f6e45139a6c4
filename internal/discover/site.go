package discover

import (
	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/common"
	"config-binder/internal/diagnostic"
)

// Origin says what kind of declaration a site came from.
type Origin int

const (
	OriginAccessor Origin = iota
	OriginProviderParam
	OriginConstructorParam
	OriginField
	OriginMethodParam
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginAccessor:
		return "accessor"
	case OriginProviderParam:
		return "provider parameter"
	case OriginConstructorParam:
		return "constructor parameter"
	case OriginField:
		return "field"
	case OriginMethodParam:
		return "method parameter"
	default:
		return common.UnknownStr
	}
}

// Site is one consumption site. Sites are immutable once discovered.
type Site struct {
	Type      *analyze.TypeInfo
	Qualifier binding.Qualifier
	Nullable  bool
	Location  diagnostic.Location
	// Owner is the component, module or injectable declaring the site.
	Owner  analyze.TypeID
	Member string
	Origin Origin
}

// DefaultValue returns the qualifier's declared default, or nil.
func (s Site) DefaultValue() *string {
	if s.Qualifier == nil {
		return nil
	}

	return s.Qualifier.DefaultValue()
}

// Loc returns a pointer to a copy of the site's location, for diagnostics.
func (s Site) Loc() *diagnostic.Location {
	loc := s.Location
	return &loc
}

// FilterSource keeps the sites whose qualifier reads from source.
func FilterSource(sites []Site, source binding.Source) []Site {
	var out []Site

	for _, s := range sites {
		if s.Qualifier != nil && s.Qualifier.Source() == source {
			out = append(out, s)
		}
	}

	return out
}
