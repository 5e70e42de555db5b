package record

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Flatten projects a decoded JSON document onto underscore-joined leaf
// paths, with list positions as indices: names_0_value, external_ids_1_all_0.
// This is the exhaustive projection the hygiene checks scan; curation rules
// use the canonical View instead.
func Flatten(doc any) map[string]string {
	out := make(map[string]string)
	flattenInto(doc, "", out)
	return out
}

// FlattenFile decodes a tree document and flattens it.
func FlattenFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Flatten(doc), nil
}

// FlatKeys returns the keys of a flat view in sorted order, so findings come
// out deterministically.
func FlatKeys(flat map[string]string) []string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flattenInto(v any, prefix string, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			flattenInto(child, join(prefix, k), out)
		}
	case []any:
		for i, child := range val {
			flattenInto(child, join(prefix, strconv.Itoa(i)), out)
		}
	case string:
		out[prefix] = val
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	case nil:
		out[prefix] = ""
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}
