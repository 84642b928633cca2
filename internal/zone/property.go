package zone

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/pathutil"
)

// schemas is the closed set of zonecfg resource kinds zonectl can add,
// with the exact attribute keys each one takes, in emission order.
var schemas = map[string][]string{
	"capped-memory": {"physical", "swap", "locked"},
	"capped-cpu":    {"ncpus"},
	"fs":            {"dir", "special", "type"},
	"dataset":       {"name"},
}

// configurable are the global zonecfg properties Configure may set.
var configurable = []string{
	"autoboot",
	"bootargs",
	"brand",
	"hostid",
	"ip-type",
	"limitpriv",
	"pool",
	"scheduling-class",
	"zonepath",
}

// PropertyKinds returns the supported resource kinds, sorted.
func PropertyKinds() []string {
	kinds := slices.Collect(maps.Keys(schemas))
	sort.Strings(kinds)
	return kinds
}

// Schema returns the attribute keys of a resource kind.
func Schema(kind string) ([]string, bool) {
	keys, ok := schemas[kind]
	return slices.Clone(keys), ok
}

// Property is one zonecfg resource section to add.
type Property struct {
	Kind  string
	Attrs map[string]string
}

// Validate checks the attribute key set matches the kind's schema exactly
// and every value is safe to embed in a zonecfg script.
func (p Property) Validate() error {
	keys, ok := schemas[p.Kind]
	if !ok {
		return errclass.ErrPropertySchema.WithMessagef("unknown property %s, expected one of %v", p.Kind, PropertyKinds())
	}

	var missing, extra []string
	for _, k := range keys {
		if _, ok := p.Attrs[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range p.Attrs {
		if !slices.Contains(keys, k) {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return errclass.ErrPropertySchema.WithMessagef("%s attributes do not match schema %v: missing %v, unexpected %v",
			p.Kind, keys, missing, extra)
	}

	for _, k := range keys {
		if err := pathutil.ValidateConfigValue(p.Attrs[k]); err != nil {
			return errclass.ErrPropertySchema.WithMessagef("%s.%s: %v", p.Kind, k, err)
		}
	}
	return nil
}

// statements renders add/set.../end for the section.
func (p Property) statements() []string {
	keys := schemas[p.Kind]
	stmts := make([]string, 0, len(keys)+2)
	stmts = append(stmts, "add "+p.Kind)
	for _, k := range keys {
		stmts = append(stmts, "set "+k+"="+pathutil.QuoteConfigValue(p.Attrs[k]))
	}
	return append(stmts, "end")
}

// addScript builds the zonecfg script for a batch of sections.
func addScript(props []Property) (string, error) {
	if len(props) == 0 {
		return "", errclass.ErrPropertySchema.WithMessage("no properties given")
	}
	var stmts []string
	for _, p := range props {
		if err := p.Validate(); err != nil {
			return "", err
		}
		stmts = append(stmts, p.statements()...)
	}
	return script(stmts...), nil
}

// removeScript builds "remove <kind>[ k=v ...];exit". Selector keys must
// belong to the kind's schema and are emitted in schema order.
func removeScript(kind string, selector map[string]string) (string, error) {
	keys, ok := schemas[kind]
	if !ok {
		return "", errclass.ErrPropertySchema.WithMessagef("unknown property %s, expected one of %v", kind, PropertyKinds())
	}
	for k, v := range selector {
		if !slices.Contains(keys, k) {
			return "", errclass.ErrPropertySchema.WithMessagef("%s has no attribute %s", kind, k)
		}
		if err := pathutil.ValidateConfigValue(v); err != nil {
			return "", errclass.ErrPropertySchema.WithMessagef("%s.%s: %v", kind, k, err)
		}
	}

	stmt := "remove " + kind
	for _, k := range keys {
		if v, ok := selector[k]; ok {
			stmt += " " + k + "=" + pathutil.QuoteConfigValue(v)
		}
	}
	return script(stmt), nil
}

// configureScript builds "set <attr>=<value>;exit" for a global property.
func configureScript(attr, value string) (string, error) {
	if !slices.Contains(configurable, attr) {
		return "", errclass.ErrUnknownAttribute.WithMessagef("cannot set %s, expected one of %v", attr, configurable)
	}
	if err := pathutil.ValidateConfigValue(value); err != nil {
		return "", err
	}
	return script("set " + attr + "=" + pathutil.QuoteConfigValue(value)), nil
}

// script joins zonecfg statements with ';' and terminates with exit.
func script(stmts ...string) string {
	return strings.Join(append(slices.Clone(stmts), "exit"), ";")
}
