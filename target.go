package main

import (
	"strconv"
	"strings"
)

// ParseTarget resolves a bare string into canonical SurrealQL query text.
// Inputs containing a colon are tried as record-id literals (table:key,
// where key may be a scalar or a bracketed array of scalars); everything
// else, including failed record-id parses, is treated as a table
// identifier. The function is total.
func ParseTarget(input string) string {
	if strings.Contains(input, ":") {
		if rid, ok := parseRecordID(input); ok {
			return rid.SQL()
		}
	}
	return TableValue(input).SQL()
}

// ParseTargets canonicalizes each input and joins them with ", " for use
// in multi-target query fragments.
func ParseTargets(inputs []string) string {
	parts := make([]string, len(inputs))
	for i, input := range inputs {
		parts[i] = ParseTarget(input)
	}
	return strings.Join(parts, ", ")
}

func parseRecordID(input string) (*RecordID, bool) {
	table, rest, ok := strings.Cut(input, ":")
	if !ok || !plainIdent(table) {
		return nil, false
	}
	key, ok := parseRecordKey(strings.TrimSpace(rest))
	if !ok {
		return nil, false
	}
	return &RecordID{Table: table, Key: key}, true
}

// parseRecordKey accepts a simple scalar key or a bracketed array of
// scalar keys, e.g. john, 42, ['north', 'sector', 1].
func parseRecordKey(s string) (Value, bool) {
	if s == "" {
		return Value{}, false
	}
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Value{}, false
		}
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return ArrayValue(), true
		}
		var items []Value
		for _, part := range splitKeyParts(inner) {
			item, ok := parseScalarKey(strings.TrimSpace(part))
			if !ok {
				return Value{}, false
			}
			items = append(items, item)
		}
		return ArrayValue(items...), true
	}
	return parseScalarKey(s)
}

func parseScalarKey(s string) (Value, bool) {
	if s == "" {
		return Value{}, false
	}
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return StringValue(s[1 : len(s)-1]), true
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i), true
	}
	if plainIdent(s) {
		return StringValue(s), true
	}
	return Value{}, false
}

// splitKeyParts splits on commas that are not inside quotes. Nested
// brackets are not supported in composite keys.
func splitKeyParts(s string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
