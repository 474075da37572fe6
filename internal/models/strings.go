package models

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// StringSet encodes values as a sorted, de-duplicated JSON array.
func StringSet(values []string) datatypes.JSON {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	b, err := json.Marshal(out)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

func DecodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// IsEmptyJSON reports whether raw carries no useful value.
func IsEmptyJSON(raw datatypes.JSON) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "[]" || s == "{}"
}
