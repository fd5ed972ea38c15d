// Package header flattens the header shapes a caller may hand the transport
// into the ordered name/value list Postmark accepts.
package header

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/message"
)

// KeyValue is the list form of a header entry.
type KeyValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Parse normalizes input into message headers.
//
// A list (of KeyValue, message.Header, or decoded JSON objects with
// "key"/"value" fields) is kept in its given order. A map is walked in sorted
// key order; a multi-valued entry emits one header per value, in value order,
// all under the same name.
func Parse(input any) ([]message.Header, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case []message.Header:
		return slices.Clone(v), nil
	case []KeyValue:
		out := make([]message.Header, 0, len(v))
		for _, kv := range v {
			out = append(out, message.Header{Name: kv.Key, Value: stringify(kv.Value)})
		}
		return out, nil
	case []map[string]string:
		out := make([]message.Header, 0, len(v))
		for _, kv := range v {
			out = append(out, message.Header{Name: kv["key"], Value: kv["value"]})
		}
		return out, nil
	case []any:
		return parseList(v)
	case map[string]string:
		out := make([]message.Header, 0, len(v))
		for _, name := range sortedKeys(v) {
			out = append(out, message.Header{Name: name, Value: v[name]})
		}
		return out, nil
	case http.Header:
		return parseMulti(v), nil
	case map[string][]string:
		return parseMulti(v), nil
	case map[string]any:
		var out []message.Header
		for _, name := range sortedKeys(v) {
			out = appendValues(out, name, v[name])
		}
		return out, nil
	default:
		return nil, domain.Errorf(domain.EINVALID, "header.parse", "unsupported headers value of type %T", input)
	}
}

func parseList(items []any) ([]message.Header, error) {
	out := make([]message.Header, 0, len(items))
	for i, item := range items {
		switch kv := item.(type) {
		case KeyValue:
			out = append(out, message.Header{Name: kv.Key, Value: stringify(kv.Value)})
		case message.Header:
			out = append(out, kv)
		case map[string]any:
			name, _ := kv["key"].(string)
			if name == "" {
				return nil, domain.Errorf(domain.EINVALID, "header.parse", "header entry %d has no key", i)
			}
			out = append(out, message.Header{Name: name, Value: stringify(kv["value"])})
		default:
			return nil, domain.Errorf(domain.EINVALID, "header.parse", "header entry %d has unsupported type %T", i, item)
		}
	}
	return out, nil
}

func parseMulti(m map[string][]string) []message.Header {
	var out []message.Header
	for _, name := range sortedKeys(m) {
		for _, value := range m[name] {
			out = append(out, message.Header{Name: name, Value: value})
		}
	}
	return out
}

func appendValues(out []message.Header, name string, value any) []message.Header {
	switch vs := value.(type) {
	case []any:
		for _, v := range vs {
			out = append(out, message.Header{Name: name, Value: stringify(v)})
		}
	case []string:
		for _, v := range vs {
			out = append(out, message.Header{Name: name, Value: v})
		}
	default:
		out = append(out, message.Header{Name: name, Value: stringify(value)})
	}
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
