// Package address normalizes the loose address inputs accepted by the
// transport (strings, structured pairs, comma-joined lists, slices of either)
// into the formatted strings Postmark expects in From/To/Cc/Bcc/ReplyTo.
package address

import (
	"fmt"
	"strings"
)

// Address is a single parsed mailbox. Name is optional.
type Address struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// String returns the wire form of the address, or "" when it has no address.
func (a Address) String() string {
	s, _ := Format(a)
	return s
}

// Format renders a pair as `"Name" <addr>` when both parts are present and as
// the bare address otherwise. ok is false when the pair carries no address, in
// which case the field must be omitted.
func Format(a Address) (string, bool) {
	if a.Address == "" {
		return "", false
	}
	if a.Name != "" {
		return fmt.Sprintf(`"%s" <%s>`, a.Name, a.Address), true
	}
	return a.Address, true
}

// Parse flattens input into an ordered list of addresses. Accepted shapes:
// nil, string (tokenized, may yield several addresses), Address, *Address,
// map[string]any / map[string]string with "name" and "address" keys, and
// slices of any of these. Anything else is stringified and tokenized.
func Parse(input any) []Address {
	var out []Address
	collect(input, &out)
	return out
}

func collect(input any, out *[]Address) {
	switch v := input.(type) {
	case nil:
	case string:
		*out = append(*out, Tokenize(v)...)
	case Address:
		*out = append(*out, v)
	case *Address:
		if v != nil {
			*out = append(*out, *v)
		}
	case map[string]any:
		*out = append(*out, Address{Name: stringField(v["name"]), Address: stringField(v["address"])})
	case map[string]string:
		*out = append(*out, Address{Name: v["name"], Address: v["address"]})
	case []string:
		for _, s := range v {
			*out = append(*out, Tokenize(s)...)
		}
	case []Address:
		*out = append(*out, v...)
	case []*Address:
		for _, a := range v {
			collect(a, out)
		}
	case []any:
		for _, item := range v {
			collect(item, out)
		}
	case fmt.Stringer:
		*out = append(*out, Tokenize(v.String())...)
	default:
		*out = append(*out, Tokenize(fmt.Sprint(v))...)
	}
}

func stringField(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// FormatList formats every address in input and joins them with ",".
// Used for To, Cc and Bcc.
func FormatList(input any) string {
	parsed := Parse(input)
	formatted := make([]string, 0, len(parsed))
	for _, a := range parsed {
		if s, ok := Format(a); ok {
			formatted = append(formatted, s)
		}
	}
	return strings.Join(formatted, ",")
}

// FormatFirst formats only the first parsed address. Used for From and
// ReplyTo, where extra addresses are dropped.
func FormatFirst(input any) string {
	parsed := Parse(input)
	if len(parsed) == 0 {
		return ""
	}
	s, _ := Format(parsed[0])
	return s
}
