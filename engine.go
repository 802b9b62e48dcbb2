package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Response is the outcome of executing one SurrealQL script. Exactly one
// of Results and Err is populated.
type Response struct {
	// QueryID tracks the query across log events.
	QueryID uint64
	// Query is the executed SurrealQL text.
	Query string
	// Duration is the wall-clock time from issuance to completion.
	Duration time.Duration
	// Results holds one entry per statement on success; nil on failure.
	Results []QueryResult
	// Err carries the database error message verbatim on failure.
	Err string
}

// ExecuteQuery binds parameters, runs the script against the connection
// and records duration, metrics and trace events. Failures are captured
// as data in the response, never raised: the protocol layer must always
// be able to answer with a well-formed result-or-error payload.
func ExecuteQuery(
	ctx context.Context,
	conn Conn,
	queryID uint64,
	query string,
	parameters map[string]any,
	connectionID string,
	logger *zap.Logger,
) Response {
	start := time.Now()

	logger.Debug("executing query",
		zap.String("connection_id", connectionID),
		zap.Uint64("query_id", queryID),
		zap.String("query", query),
	)

	vars := make(map[string]Value, len(parameters))
	for name, raw := range parameters {
		v, err := EncodeParam(name, raw)
		if err != nil {
			// Unreachable for well-formed JSON input; kept so a future
			// validating encoder surfaces path-qualified diagnostics.
			return failed(queryID, query, time.Since(start), err.Error(), connectionID, logger)
		}
		vars[name] = v
	}

	results, err := conn.Query(ctx, query, vars)
	duration := time.Since(start)
	if err != nil {
		return failed(queryID, query, duration, err.Error(), connectionID, logger)
	}

	logger.Info("query execution succeeded",
		zap.String("connection_id", connectionID),
		zap.Uint64("query_id", queryID),
		zap.String("query", query),
		zap.String("duration", FormatDuration(duration)),
	)
	metricTotalQueries.Inc()
	metricQueryDuration.Observe(float64(duration.Milliseconds()))

	return Response{
		QueryID:  queryID,
		Query:    query,
		Duration: duration,
		Results:  results,
	}
}

func failed(queryID uint64, query string, duration time.Duration, msg, connectionID string, logger *zap.Logger) Response {
	logger.Error("query execution failed",
		zap.String("connection_id", connectionID),
		zap.Uint64("query_id", queryID),
		zap.String("query", query),
		zap.String("duration", FormatDuration(duration)),
		zap.String("error", msg),
	)
	metricTotalQueryErrors.Inc()
	metricQueryDuration.Observe(float64(duration.Milliseconds()))

	return Response{
		QueryID:  queryID,
		Query:    query,
		Duration: duration,
		Err:      msg,
	}
}

// ToToolResult flattens the response to the first statement's result and
// renders it as pretty-printed JSON content. A script of several
// statements surfaces only statement zero: the protocol returns one
// payload per tool invocation, so callers needing a later statement's
// outcome must issue it on its own. On failure the captured error is
// returned as a terminal error instead of partial content.
func (r Response) ToToolResult() (*mcp.CallToolResult, error) {
	if r.Results == nil {
		msg := r.Err
		if msg == "" {
			msg = "unknown error"
		}
		return nil, errors.New(msg)
	}

	first := None()
	if len(r.Results) > 0 {
		first = r.Results[0].Value
	}
	decoded := DecodeValue(first)
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(pretty)}},
	}, nil
}
