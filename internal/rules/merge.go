package rules

// deepMerge overlays override onto base. Nested mappings merge recursively;
// any other value replaces the base value. Sibling keys absent from the
// override are preserved.
func deepMerge(base map[string]any, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		baseMap, baseOK := out[key].(map[string]any)
		overrideMap, overrideOK := value.(map[string]any)
		if baseOK && overrideOK {
			out[key] = deepMerge(baseMap, overrideMap)
			continue
		}
		out[key] = value
	}
	return out
}
