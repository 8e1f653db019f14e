package cart

import (
	"sort"
	"strings"
)

// Variant is a small descriptive selector such as {"size": "M", "color": "red"}.
// Two variants are the same when they hold the same pairs; nil and empty are equal.
type Variant map[string]string

// Equal compares variants structurally
func (v Variant) Equal(other Variant) bool {
	if len(v) != len(other) {
		return false
	}
	for k, val := range v {
		o, ok := other[k]
		if !ok || o != val {
			return false
		}
	}
	return true
}

// Signature renders the variant as a stable key, e.g. "color=red;size=M"
func (v Variant) Signature() string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+v[k])
	}
	return strings.Join(parts, ";")
}

// Clone returns an independent copy
func (v Variant) Clone() Variant {
	if v == nil {
		return nil
	}
	out := make(Variant, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
