package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeConn records what the executor sends and plays back canned
// statement results.
type fakeConn struct {
	results  []QueryResult
	err      error
	gotQuery string
	gotVars  map[string]Value
}

func (f *fakeConn) Query(ctx context.Context, query string, vars map[string]Value) ([]QueryResult, error) {
	f.gotQuery = query
	f.gotVars = vars
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestExecuteQuerySuccess(t *testing.T) {
	conn := &fakeConn{
		results: []QueryResult{
			{Status: "OK", Value: StringValue("hello")},
		},
	}

	resp := ExecuteQuery(context.Background(), conn, 1, "RETURN 'hello';", nil, "conn_test", zap.NewNop())

	assert.Equal(t, uint64(1), resp.QueryID)
	assert.Equal(t, "RETURN 'hello';", resp.Query)
	assert.Empty(t, resp.Err)
	require.Len(t, resp.Results, 1)
	assert.GreaterOrEqual(t, resp.Duration, time.Duration(0))
}

func TestExecuteQueryBindsEncodedParameters(t *testing.T) {
	conn := &fakeConn{results: []QueryResult{{Status: "OK", Value: None()}}}
	params := map[string]any{
		"content": map[string]any{"name": "John", "age": float64(30)},
	}

	resp := ExecuteQuery(context.Background(), conn, 2, "CREATE person CONTENT $content;", params, "conn_test", zap.NewNop())

	require.Empty(t, resp.Err)
	require.Contains(t, conn.gotVars, "content")
	bound := conn.gotVars["content"]
	assert.Equal(t, KindObject, bound.Kind())
	assert.Equal(t, "{ age: 30, name: 'John' }", bound.SQL())
}

func TestExecuteQueryFailure(t *testing.T) {
	conn := &fakeConn{err: errors.New("There was a problem with the database: Function not found")}

	resp := ExecuteQuery(context.Background(), conn, 3, "RETURN missing();", nil, "conn_test", zap.NewNop())

	assert.Nil(t, resp.Results)
	assert.NotEmpty(t, resp.Err)
	assert.Contains(t, resp.Err, "Function not found")
	// Duration is measured on failure too.
	assert.GreaterOrEqual(t, resp.Duration, time.Duration(0))
}

func TestExecuteQueryLogsHumanDuration(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	conn := &fakeConn{results: []QueryResult{{Status: "OK", Value: None()}}}

	resp := ExecuteQuery(context.Background(), conn, 7, "RETURN 1;", nil, "conn_test", zap.New(core))

	entries := logs.FilterMessage("query execution succeeded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, FormatDuration(resp.Duration), entries[0].ContextMap()["duration"])
}

func TestQueryFailureMetrics(t *testing.T) {
	queryErrorsBefore := testutil.ToFloat64(metricTotalQueryErrors)
	totalErrorsBefore := testutil.ToFloat64(metricTotalErrors)

	conn := &fakeConn{err: errors.New("boom")}
	resp := ExecuteQuery(context.Background(), conn, 8, "RETURN 1;", nil, "conn_test", zap.NewNop())
	require.NotEmpty(t, resp.Err)

	assert.Equal(t, queryErrorsBefore+1, testutil.ToFloat64(metricTotalQueryErrors))
	// total_errors counts rate-limit rejections, not query failures.
	assert.Equal(t, totalErrorsBefore, testutil.ToFloat64(metricTotalErrors))
}

func TestResponseInvariantExactlyOneSide(t *testing.T) {
	ok := ExecuteQuery(context.Background(), &fakeConn{results: []QueryResult{}}, 4, "RETURN 1;", nil, "c", zap.NewNop())
	assert.NotNil(t, ok.Results)
	assert.Empty(t, ok.Err)

	bad := ExecuteQuery(context.Background(), &fakeConn{err: errors.New("boom")}, 5, "RETURN 1;", nil, "c", zap.NewNop())
	assert.Nil(t, bad.Results)
	assert.NotEmpty(t, bad.Err)
}

func TestToToolResultFlattensToFirstStatement(t *testing.T) {
	// CREATE person:john SET name = 'John'; SELECT * FROM person;
	// The tool payload is the CREATE outcome, not the SELECT.
	created := ArrayValue(ObjectValue(
		Field{Key: "id", Value: RecordIDValue("person", StringValue("john"))},
		Field{Key: "name", Value: StringValue("John")},
	))
	selected := ArrayValue(ObjectValue(
		Field{Key: "id", Value: RecordIDValue("person", StringValue("jane"))},
	))
	resp := Response{
		QueryID: 6,
		Query:   "CREATE person:john SET name = 'John'; SELECT * FROM person;",
		Results: []QueryResult{
			{Status: "OK", Value: created},
			{Status: "OK", Value: selected},
		},
	}

	result, err := resp.ToToolResult()
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "person:john")
	assert.Contains(t, text, "John")
	assert.NotContains(t, text, "jane")

	var decoded any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded), "payload must be valid JSON")
}

func TestToToolResultPrettyPrints(t *testing.T) {
	resp := Response{
		Results: []QueryResult{{
			Status: "OK",
			Value: ObjectValue(
				Field{Key: "name", Value: StringValue("Alice")},
			),
		}},
	}
	result, err := resp.ToToolResult()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Alice\"\n}", textOf(t, result))
}

func TestToToolResultComplexTypes(t *testing.T) {
	record := ArrayValue(ObjectValue(
		Field{Key: "id", Value: RecordIDValue("ComplexTypes", ArrayValue(StringValue("north"), StringValue("sector"), IntValue(1)))},
		Field{Key: "location", Value: GeometryValue(10, 20)},
		Field{Key: "delay", Value: DurationValue(5 * time.Second)},
		Field{Key: "price", Value: DecimalValue("19.990000000000000001")},
	))
	resp := Response{Results: []QueryResult{{Status: "OK", Value: record}}}

	result, err := resp.ToToolResult()
	require.NoError(t, err)
	text := textOf(t, result)

	assert.Contains(t, text, "north")
	assert.Contains(t, text, "sector")
	assert.Contains(t, text, "1")
	assert.Contains(t, text, "10")
	assert.Contains(t, text, "20")
	assert.Contains(t, text, "5s")
	assert.Contains(t, text, "19.990000000000000001")
}

func TestToToolResultEmptyScript(t *testing.T) {
	resp := Response{Results: []QueryResult{}}
	result, err := resp.ToToolResult()
	require.NoError(t, err)
	assert.Equal(t, "null", textOf(t, result))
}

func TestToToolResultError(t *testing.T) {
	resp := Response{Err: "parse error at line 1"}
	result, err := resp.ToToolResult()
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, "parse error at line 1", err.Error())
}

func TestToToolResultUnknownError(t *testing.T) {
	resp := Response{}
	_, err := resp.ToToolResult()
	require.Error(t, err)
	assert.Equal(t, "unknown error", err.Error())
}
