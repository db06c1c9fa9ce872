package common

import (
	"encoding/json"
)

// Decode converts a cached value back to T.
// In-memory backends hand back the stored value; Redis hands back raw JSON.
func Decode[T any](v interface{}) (T, bool) {
	var out T
	switch val := v.(type) {
	case T:
		return val, true
	case *T:
		if val == nil {
			return out, false
		}
		return *val, true
	case json.RawMessage:
		if err := json.Unmarshal(val, &out); err != nil {
			return out, false
		}
		return out, true
	case []byte:
		if err := json.Unmarshal(val, &out); err != nil {
			return out, false
		}
		return out, true
	default:
		return out, false
	}
}
