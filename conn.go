package main

import (
	"context"
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// QueryResult is the outcome of a single statement within a script.
type QueryResult struct {
	Status string
	Time   string
	Value  Value
}

// Conn is the capability the executor needs from a database connection.
// Implementations must be safe for concurrent use by multiple in-flight
// queries; the executor does not own the connection lifecycle.
type Conn interface {
	// Query executes a SurrealQL script (possibly several semicolon-
	// separated statements) with named parameter bindings and returns
	// one result per statement.
	Query(ctx context.Context, query string, vars map[string]Value) ([]QueryResult, error)
}

// surrealConn adapts the SurrealDB SDK client to Conn, lowering native
// Values to SDK model types on the way in and lifting decoded results
// back on the way out.
type surrealConn struct {
	db *surrealdb.DB
}

// Connect opens a client connection to the configured endpoint, selects
// the namespace and database, and signs in when credentials are given.
func Connect(ctx context.Context, cfg *Config) (*surrealConn, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to select %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}
	if cfg.User != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.User,
			Password: cfg.Pass,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	return &surrealConn{db: db}, nil
}

func (c *surrealConn) Query(ctx context.Context, query string, vars map[string]Value) ([]QueryResult, error) {
	lowered := make(map[string]any, len(vars))
	for k, v := range vars {
		lowered[k] = lowerValue(v)
	}
	res, err := surrealdb.Query[any](ctx, c.db, query, lowered)
	if err != nil {
		return nil, err
	}
	results := make([]QueryResult, 0, len(*res))
	for _, qr := range *res {
		results = append(results, QueryResult{
			Status: string(qr.Status),
			Time:   qr.Time,
			Value:  liftValue(qr.Result),
		})
	}
	return results, nil
}

// Version reports the server version of the connected instance.
func (c *surrealConn) Version(ctx context.Context) (string, error) {
	v, err := c.db.Version(ctx)
	if err != nil {
		return "", err
	}
	return v.Version, nil
}

func (c *surrealConn) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

// lowerValue converts a native Value into what the SDK expects for
// parameter binding.
func lowerValue(v Value) any {
	switch v.Kind() {
	case KindNone:
		return models.CustomNil{}
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindDecimal:
		// The SDK has no decimal binding; the verbatim digits travel
		// as a string.
		return v.Text()
	case KindString:
		return v.Text()
	case KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = lowerValue(item)
		}
		return out
	case KindObject:
		fields := v.Fields()
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			out[f.Key] = lowerValue(f.Value)
		}
		return out
	case KindRecordID:
		r := v.Record()
		return models.RecordID{Table: r.Table, ID: lowerValue(r.Key)}
	case KindTable:
		return models.Table(v.Text())
	case KindGeometry:
		p := v.Point()
		return models.GeometryPoint{Latitude: p.Latitude, Longitude: p.Longitude}
	case KindDuration:
		return models.CustomDuration{Duration: v.Dur()}
	case KindDatetime:
		return models.CustomDateTime{Time: v.Time()}
	}
	return nil
}

// liftValue converts whatever the SDK decoded into the native value
// model. Unknown types fall back to their string rendering so the lift
// stays total.
func liftValue(x any) Value {
	switch t := x.(type) {
	case nil:
		return None()
	case models.CustomNil:
		return None()
	case bool:
		return BoolValue(t)
	case string:
		return StringValue(t)
	case int:
		return IntValue(int64(t))
	case int8:
		return IntValue(int64(t))
	case int16:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case uint:
		return IntValue(int64(t))
	case uint8:
		return IntValue(int64(t))
	case uint16:
		return IntValue(int64(t))
	case uint32:
		return IntValue(int64(t))
	case uint64:
		return IntValue(int64(t))
	case float32:
		return FloatValue(float64(t))
	case float64:
		return FloatValue(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = liftValue(item)
		}
		return ArrayValue(items...)
	case map[string]any:
		fields := make([]Field, 0, len(t))
		for k, item := range t {
			fields = append(fields, Field{Key: k, Value: liftValue(item)})
		}
		return ObjectValue(fields...)
	case map[any]any:
		fields := make([]Field, 0, len(t))
		for k, item := range t {
			fields = append(fields, Field{Key: fmt.Sprint(k), Value: liftValue(item)})
		}
		return ObjectValue(fields...)
	case models.RecordID:
		return RecordIDValue(t.Table, liftValue(t.ID))
	case *models.RecordID:
		return RecordIDValue(t.Table, liftValue(t.ID))
	case models.Table:
		return TableValue(string(t))
	case models.CustomDuration:
		return DurationValue(t.Duration)
	case models.CustomDateTime:
		return DatetimeValue(t.Time)
	case models.GeometryPoint:
		return GeometryValue(t.Longitude, t.Latitude)
	default:
		return StringValue(fmt.Sprintf("%v", x))
	}
}
