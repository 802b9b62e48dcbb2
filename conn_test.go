package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestLiftValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected Value
	}{
		{"nil", nil, None()},
		{"custom nil", models.CustomNil{}, None()},
		{"bool", true, BoolValue(true)},
		{"string", "x", StringValue("x")},
		{"int64", int64(42), IntValue(42)},
		{"uint32", uint32(7), IntValue(7)},
		{"float64", 2.5, FloatValue(2.5)},
		{"table", models.Table("person"), TableValue("person")},
		{
			"record id",
			models.RecordID{Table: "person", ID: "john"},
			RecordIDValue("person", StringValue("john")),
		},
		{
			"record id composite",
			models.RecordID{Table: "zone", ID: []any{"north", "sector", int64(1)}},
			RecordIDValue("zone", ArrayValue(StringValue("north"), StringValue("sector"), IntValue(1))),
		},
		{
			"duration",
			models.CustomDuration{Duration: 5 * time.Second},
			DurationValue(5 * time.Second),
		},
		{
			"geometry point",
			models.GeometryPoint{Latitude: 20, Longitude: 10},
			GeometryValue(10, 20),
		},
		{
			"array",
			[]any{int64(1), "two"},
			ArrayValue(IntValue(1), StringValue("two")),
		},
		{
			"object",
			map[string]any{"b": int64(2), "a": "one"},
			ObjectValue(
				Field{Key: "a", Value: StringValue("one")},
				Field{Key: "b", Value: IntValue(2)},
			),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, liftValue(tc.input))
		})
	}
}

func TestLiftValueUnknownTypeFallsBackToString(t *testing.T) {
	type opaque struct{ A int }
	v := liftValue(opaque{A: 1})
	require.Equal(t, KindString, v.Kind())
	assert.Equal(t, "{1}", v.Text())
}

func TestLowerValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    Value
		expected any
	}{
		{"none", None(), models.CustomNil{}},
		{"null", Null(), nil},
		{"bool", BoolValue(true), true},
		{"int", IntValue(42), int64(42)},
		{"float", FloatValue(2.5), 2.5},
		{"decimal travels as text", DecimalValue("1.23"), "1.23"},
		{"string", StringValue("x"), "x"},
		{"table", TableValue("person"), models.Table("person")},
		{
			"record id",
			RecordIDValue("person", StringValue("john")),
			models.RecordID{Table: "person", ID: "john"},
		},
		{
			"duration",
			DurationValue(time.Minute),
			models.CustomDuration{Duration: time.Minute},
		},
		{
			"array",
			ArrayValue(IntValue(1), StringValue("two")),
			[]any{int64(1), "two"},
		},
		{
			"object",
			ObjectValue(Field{Key: "a", Value: IntValue(1)}),
			map[string]any{"a": int64(1)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lowerValue(tc.input))
		})
	}
}

// Lowering then lifting a value must be the identity for everything the
// SDK can carry both ways.
func TestLowerLiftRoundTrip(t *testing.T) {
	values := []Value{
		None(),
		BoolValue(false),
		IntValue(-3),
		FloatValue(0.5),
		StringValue("s"),
		TableValue("person"),
		RecordIDValue("person", StringValue("john")),
		DurationValue(90 * time.Second),
		ArrayValue(IntValue(1), ArrayValue(StringValue("nested"))),
		ObjectValue(Field{Key: "k", Value: BoolValue(true)}),
	}
	for _, v := range values {
		assert.Equal(t, v, liftValue(lowerValue(v)), "value %s", v.SQL())
	}
}
