package dashboard

import (
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/util"
)

var (
	// DefaultKeyFields are probed in order for a state's postal code.
	DefaultKeyFields = []string{"postal", "STUSPS", "STATE_ABBR", "state", "abbr"}

	// DefaultNameFields are probed in order for a full state name when no key field is present.
	DefaultNameFields = []string{"name", "NAME", "STATE_NAME"}
)

// StateNames maps canonical state names to postal codes.
var StateNames = map[string]string{
	"Alabama":              "AL",
	"Alaska":               "AK",
	"Arizona":              "AZ",
	"Arkansas":             "AR",
	"California":           "CA",
	"Colorado":             "CO",
	"Connecticut":          "CT",
	"Delaware":             "DE",
	"District of Columbia": "DC",
	"Florida":              "FL",
	"Georgia":              "GA",
	"Hawaii":               "HI",
	"Idaho":                "ID",
	"Illinois":             "IL",
	"Indiana":              "IN",
	"Iowa":                 "IA",
	"Kansas":               "KS",
	"Kentucky":             "KY",
	"Louisiana":            "LA",
	"Maine":                "ME",
	"Maryland":             "MD",
	"Massachusetts":        "MA",
	"Michigan":             "MI",
	"Minnesota":            "MN",
	"Mississippi":          "MS",
	"Missouri":             "MO",
	"Montana":              "MT",
	"Nebraska":             "NE",
	"Nevada":               "NV",
	"New Hampshire":        "NH",
	"New Jersey":           "NJ",
	"New Mexico":           "NM",
	"New York":             "NY",
	"North Carolina":       "NC",
	"North Dakota":         "ND",
	"Ohio":                 "OH",
	"Oklahoma":             "OK",
	"Oregon":               "OR",
	"Pennsylvania":         "PA",
	"Rhode Island":         "RI",
	"South Carolina":       "SC",
	"South Dakota":         "SD",
	"Tennessee":            "TN",
	"Texas":                "TX",
	"Utah":                 "UT",
	"Vermont":              "VT",
	"Virginia":             "VA",
	"Washington":           "WA",
	"West Virginia":        "WV",
	"Wisconsin":            "WI",
	"Wyoming":              "WY",
}

// Resolver finds the canonical state key in a map feature's property bag.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	keyFields  []string
	nameFields []string
	names      map[string]string
}

// NewResolver builds a resolver probing keyFields in order. Empty keyFields uses DefaultKeyFields.
func NewResolver(keyFields []string) *Resolver {
	if len(keyFields) == 0 {
		keyFields = DefaultKeyFields
	}
	names := make(map[string]string, len(StateNames))
	for name, key := range StateNames {
		names[util.NameKey(name)] = key
	}
	return &Resolver{
		keyFields:  append([]string(nil), keyFields...),
		nameFields: DefaultNameFields,
		names:      names,
	}
}

// KeyFields returns the probe order.
func (r *Resolver) KeyFields() []string {
	return append([]string(nil), r.keyFields...)
}

// Resolve returns the state key for props. The first non-empty key field wins;
// otherwise each name field is looked up in StateNames.
func (r *Resolver) Resolve(props map[string]any) (string, bool) {
	for _, field := range r.keyFields {
		if v, ok := stringProp(props, field); ok {
			return model.NormalizeKey(v), true
		}
	}
	for _, field := range r.nameFields {
		v, ok := stringProp(props, field)
		if !ok {
			continue
		}
		if key, found := r.names[util.NameKey(v)]; found {
			return key, true
		}
	}
	return "", false
}

// KeyForName looks up a state name in StateNames, ignoring case and extra whitespace.
func (r *Resolver) KeyForName(name string) (string, bool) {
	key, ok := r.names[util.NameKey(name)]
	return key, ok
}

func stringProp(props map[string]any, field string) (string, bool) {
	raw, ok := props[field]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
