package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variants of Value, the server-side mirror of
// SurrealDB's tagged value model.
type Kind uint8

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindArray
	KindObject
	KindRecordID
	KindTable
	KindGeometry
	KindDuration
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindRecordID:
		return "record"
	case KindTable:
		return "table"
	case KindGeometry:
		return "geometry"
	case KindDuration:
		return "duration"
	case KindDatetime:
		return "datetime"
	}
	return "unknown"
}

// Field is one key/value entry of an object Value. Objects keep their
// fields sorted by key so rendering is deterministic.
type Field struct {
	Key   string
	Value Value
}

// RecordID is a composite record identifier: a table plus a key which may
// itself be a string, a number or an array of scalars.
type RecordID struct {
	Table string
	Key   Value
}

// GeoPoint is a geometry point in longitude/latitude order.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// Value is a tagged union over everything a SurrealQL statement can
// produce or bind. The zero Value is NONE.
type Value struct {
	kind   Kind
	boolv  bool
	intv   int64
	floatv float64
	// strv carries the payload for string, decimal (verbatim digits) and
	// table (identifier) kinds.
	strv   string
	arr    []Value
	fields []Field
	record *RecordID
	point  *GeoPoint
	dur    time.Duration
	ts     time.Time
}

func None() Value { return Value{kind: KindNone} }

func Null() Value { return Value{kind: KindNull} }

func BoolValue(b bool) Value { return Value{kind: KindBool, boolv: b} }

func IntValue(i int64) Value { return Value{kind: KindInt, intv: i} }

func FloatValue(f float64) Value { return Value{kind: KindFloat, floatv: f} }

// DecimalValue wraps an arbitrary-precision decimal kept as text. The
// digits are never reparsed into a binary float.
func DecimalValue(text string) Value { return Value{kind: KindDecimal, strv: text} }

func StringValue(s string) Value { return Value{kind: KindString, strv: s} }

func ArrayValue(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// ObjectValue builds an object from fields, sorting them by key. Later
// duplicates win.
func ObjectValue(fields ...Field) Value {
	sorted := make([]Field, 0, len(fields))
	for _, f := range fields {
		i := sort.Search(len(sorted), func(i int) bool { return sorted[i].Key >= f.Key })
		if i < len(sorted) && sorted[i].Key == f.Key {
			sorted[i].Value = f.Value
			continue
		}
		sorted = append(sorted, Field{})
		copy(sorted[i+1:], sorted[i:])
		sorted[i] = f
	}
	return Value{kind: KindObject, fields: sorted}
}

func RecordIDValue(table string, key Value) Value {
	return Value{kind: KindRecordID, record: &RecordID{Table: table, Key: key}}
}

func TableValue(name string) Value { return Value{kind: KindTable, strv: name} }

func GeometryValue(lon, lat float64) Value {
	return Value{kind: KindGeometry, point: &GeoPoint{Longitude: lon, Latitude: lat}}
}

func DurationValue(d time.Duration) Value { return Value{kind: KindDuration, dur: d} }

func DatetimeValue(t time.Time) Value { return Value{kind: KindDatetime, ts: t} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool { return v.boolv }

func (v Value) Int() int64 { return v.intv }

func (v Value) Float() float64 { return v.floatv }

func (v Value) Text() string { return v.strv }

func (v Value) Items() []Value { return v.arr }

func (v Value) Fields() []Field { return v.fields }

func (v Value) Record() *RecordID { return v.record }

func (v Value) Point() *GeoPoint { return v.point }

func (v Value) Dur() time.Duration { return v.dur }

func (v Value) Time() time.Time { return v.ts }

// SQL renders the canonical SurrealQL literal form of the value. This is
// the textual form embedded into generated query fragments and the lossy
// fallback for kinds the generic output format cannot represent.
func (v Value) SQL() string {
	switch v.kind {
	case KindNone:
		return "NONE"
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.boolv)
	case KindInt:
		return strconv.FormatInt(v.intv, 10)
	case KindFloat:
		return formatFloat(v.floatv)
	case KindDecimal:
		return v.strv + "dec"
	case KindString:
		return quoteString(v.strv)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.SQL()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, len(v.fields))
		for i, f := range v.fields {
			parts[i] = escapeIdent(f.Key) + ": " + f.Value.SQL()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindRecordID:
		return v.record.SQL()
	case KindTable:
		return escapeIdent(v.strv)
	case KindGeometry:
		return "(" + formatFloat(v.point.Longitude) + ", " + formatFloat(v.point.Latitude) + ")"
	case KindDuration:
		return formatSQLDuration(v.dur)
	case KindDatetime:
		return "d" + quoteString(v.ts.UTC().Format(time.RFC3339Nano))
	}
	return "NONE"
}

// SQL renders the record identifier as table:key. Array keys keep their
// bracketed form; string keys are escaped like identifiers.
func (r *RecordID) SQL() string {
	key := r.Key.SQL()
	if r.Key.Kind() == KindString {
		key = escapeIdent(r.Key.Text())
	}
	return escapeIdent(r.Table) + ":" + key
}

// plainIdent reports whether s can appear unquoted in SurrealQL.
func plainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// escapeIdent quotes an identifier only when the grammar requires it.
func escapeIdent(s string) string {
	if plainIdent(s) {
		return s
	}
	return "⟨" + strings.ReplaceAll(s, "⟩", "\\⟩") + "⟩"
}

func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// formatFloat always keeps a fractional marker so the literal stays a
// float when parsed back.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatSQLDuration renders a duration literal from largest unit down,
// e.g. 1h2m3s, 5s, 250ms.
func formatSQLDuration(d time.Duration) string {
	if d == 0 {
		return "0ns"
	}
	neg := ""
	if d < 0 {
		neg = "-"
		d = -d
	}
	units := []struct {
		suffix string
		size   time.Duration
	}{
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
		{"ms", time.Millisecond},
		{"µs", time.Microsecond},
		{"ns", time.Nanosecond},
	}
	var b strings.Builder
	b.WriteString(neg)
	for _, u := range units {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			d -= n * u.size
		}
	}
	return b.String()
}
