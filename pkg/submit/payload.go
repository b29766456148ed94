package submit

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Payload is the flattened application: strings for scalar and single
// choice fields, string slices for multi choice fields.
type Payload map[string]any

// Clone copies the payload including slice values.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		if items, ok := v.([]string); ok {
			out[k] = append([]string(nil), items...)
			continue
		}
		out[k] = v
	}
	return out
}

// JSON converts the payload to generic JSON values ([]any instead of
// []string) as produced by encoding/json.
func (p Payload) JSON() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("submit: encode payload: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("submit: decode payload: %w", err)
	}
	return out, nil
}

// Form encodes the payload as application/x-www-form-urlencoded, using
// "name[]" keys for list values.
func (p Payload) Form() string {
	values := url.Values{}
	for key, value := range p {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				values.Add(key+"[]", item)
			}
		case []any:
			for _, item := range v {
				values.Add(key+"[]", fmt.Sprint(item))
			}
		case nil:
			values.Set(key, "")
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

// Pretty renders "key: value" lines sorted by key.
func (p Payload) Pretty() string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := p[key].(type) {
		case []string:
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(strings.Join(v, ", "))
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = fmt.Sprint(item)
			}
			fmt.Fprintf(&b, "%s: %s", key, strings.Join(parts, ", "))
		default:
			fmt.Fprintf(&b, "%s: %v", key, v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
