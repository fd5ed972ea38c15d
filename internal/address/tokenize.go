package address

import "strings"

// Tokenize splits a free-form address list (as found in a From/To header)
// into addresses. It understands comma and semicolon separators,
// `"Name" <addr>`, `Name <addr>`, `Name addr@host`, `addr (Comment)` and
// RFC 5322 groups, whose members are returned in place of the group.
// Segments without any address text are skipped.
func Tokenize(s string) []Address {
	var out []Address
	for _, seg := range splitList(s) {
		if a, ok := parseMailbox(seg); ok {
			out = append(out, a)
		}
	}
	return out
}

// splitList cuts s at top-level separators, ignoring separators inside
// quoted strings, comments and angle brackets.
func splitList(s string) []string {
	var (
		segments []string
		cur      strings.Builder
		inQuote  bool
		inAngle  bool
		inGroup  bool
		escape   bool
		depth    int
	)

	flush := func() {
		if seg := strings.TrimSpace(cur.String()); seg != "" {
			segments = append(segments, seg)
		}
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case escape:
			escape = false
		case r == '\\' && (inQuote || depth > 0):
			escape = true
		case r == '"' && depth == 0 && !inAngle:
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth > 0:
		case r == '<':
			inAngle = true
		case r == '>':
			inAngle = false
		case inAngle:
		case r == ':' && !inGroup:
			// group display name, the members follow
			cur.Reset()
			inGroup = true
			continue
		case r == ',':
			flush()
			continue
		case r == ';':
			flush()
			inGroup = false
			continue
		}
		cur.WriteRune(r)
	}
	flush()

	return segments
}

// parseMailbox extracts one address from a single list segment.
func parseMailbox(seg string) (Address, bool) {
	var (
		text, comment, addr strings.Builder
		inQuote, inAngle    bool
		hasAngle, escape    bool
		escapeToQuote       bool
		depth               int
	)

	for _, r := range seg {
		switch {
		case escape:
			if escapeToQuote {
				text.WriteRune(r)
			} else {
				comment.WriteRune(r)
			}
			escape = false
		case r == '\\' && (inQuote || depth > 0):
			escape = true
			escapeToQuote = inQuote
		case inQuote:
			if r == '"' {
				inQuote = false
			} else {
				text.WriteRune(r)
			}
		case depth > 0:
			switch r {
			case '(':
				depth++
				comment.WriteRune(r)
			case ')':
				depth--
				if depth > 0 {
					comment.WriteRune(r)
				}
			default:
				comment.WriteRune(r)
			}
		case inAngle:
			if r == '>' {
				inAngle = false
			} else {
				addr.WriteRune(r)
			}
		case r == '"':
			inQuote = true
		case r == '(':
			depth = 1
			if comment.Len() > 0 {
				comment.WriteRune(' ')
			}
		case r == '<' && !hasAngle:
			inAngle = true
			hasAngle = true
		default:
			text.WriteRune(r)
		}
	}

	note := collapse(comment.String())

	if hasAngle {
		a := Address{Name: collapse(text.String()), Address: strings.TrimSpace(addr.String())}
		if a.Name == "" {
			a.Name = note
		}
		return a, a.Address != ""
	}

	words := strings.Fields(text.String())
	if len(words) == 0 {
		return Address{}, false
	}

	at := -1
	for i := len(words) - 1; i >= 0; i-- {
		if strings.Contains(words[i], "@") {
			at = i
			break
		}
	}

	if at < 0 {
		return Address{Name: note, Address: strings.Join(words, " ")}, true
	}

	a := Address{
		Address: words[at],
		Name:    strings.Join(append(words[:at:at], words[at+1:]...), " "),
	}
	if a.Name == "" {
		a.Name = note
	}
	return a, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
