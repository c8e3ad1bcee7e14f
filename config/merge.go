package config

// MergeSkippingEmpty merges src into dst recursively. Values already in dst are
// kept when the incoming value is nil, an empty string or an empty list, so a
// blank environment variable never erases a setting from a file.
func MergeSkippingEmpty(src, dst map[string]any) error {
	for key, val := range src {
		current, exists := dst[key]
		if !exists {
			dst[key] = val
			continue
		}

		if srcMap, ok := val.(map[string]any); ok {
			if dstMap, ok := current.(map[string]any); ok {
				if err := MergeSkippingEmpty(srcMap, dstMap); err != nil {
					return err
				}
				continue
			}
		}

		if isEmptyValue(val) {
			continue
		}
		dst[key] = val
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case string:
		return vv == ""
	case []any:
		return len(vv) == 0
	case []string:
		return len(vv) == 0
	}
	return false
}
