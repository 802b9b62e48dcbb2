package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool inputs. Targets accept either a table name or a record-id literal
// such as person:john or zone:['north', 'sector', 1].

type QueryInput struct {
	QueryText  string         `json:"query_text" jsonschema_description:"The SurrealQL query to execute; may contain multiple semicolon-separated statements"`
	Parameters map[string]any `json:"parameters,omitempty" jsonschema_description:"Named parameters to bind to the query"`
}

type SelectInput struct {
	Targets []string `json:"targets" jsonschema_description:"Tables or record ids to select from"`
}

type CreateInput struct {
	Target  string         `json:"target" jsonschema_description:"Table or record id to create"`
	Content map[string]any `json:"content,omitempty" jsonschema_description:"Field content for the new record"`
}

type InsertInput struct {
	Table string `json:"table" jsonschema_description:"Table to insert into"`
	Data  any    `json:"data" jsonschema_description:"A record object or an array of record objects"`
}

type UpsertInput struct {
	Target  string         `json:"target" jsonschema_description:"Table or record id to upsert"`
	Content map[string]any `json:"content,omitempty" jsonschema_description:"Field content to apply"`
}

type UpdateInput struct {
	Targets []string       `json:"targets" jsonschema_description:"Tables or record ids to update"`
	Content map[string]any `json:"content,omitempty" jsonschema_description:"Field content replacing the matched records"`
}

type DeleteInput struct {
	Targets []string `json:"targets" jsonschema_description:"Tables or record ids to delete"`
}

type RelateInput struct {
	From     string         `json:"from" jsonschema_description:"Source record id"`
	Relation string         `json:"relation" jsonschema_description:"Relation table name"`
	To       string         `json:"to" jsonschema_description:"Target record id"`
	Content  map[string]any `json:"content,omitempty" jsonschema_description:"Field content stored on the relation edge"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query",
		Description: "Execute a raw SurrealQL query with optional named parameters. Multi-statement scripts run as one unit; the returned payload is the first statement's result.",
	}, s.handleQuery)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select",
		Description: "Select all records from one or more tables or record ids.",
	}, s.handleSelect)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create",
		Description: "Create a record in a table, optionally with content.",
	}, s.handleCreate)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "insert",
		Description: "Insert one or more records into a table.",
	}, s.handleInsert)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "upsert",
		Description: "Create or replace a record, optionally with content.",
	}, s.handleUpsert)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update",
		Description: "Replace the content of records in one or more tables or record ids.",
	}, s.handleUpdate)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete",
		Description: "Delete records from one or more tables or record ids.",
	}, s.handleDelete)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "relate",
		Description: "Create a graph relation between two records, optionally with edge content.",
	}, s.handleRelate)
}

// run executes query text through the engine and converts the response
// into tool output.
func (s *Server) run(ctx context.Context, query string, parameters map[string]any) (*mcp.CallToolResult, any, error) {
	queryID := s.queryID.Add(1)
	resp := ExecuteQuery(ctx, s.conn, queryID, query, parameters, s.connID, s.logger)
	result, err := resp.ToToolResult()
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

func (s *Server) handleQuery(ctx context.Context, req *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	if in.QueryText == "" {
		return nil, nil, fmt.Errorf("query_text is required")
	}
	return s.run(ctx, in.QueryText, in.Parameters)
}

func (s *Server) handleSelect(ctx context.Context, req *mcp.CallToolRequest, in SelectInput) (*mcp.CallToolResult, any, error) {
	if len(in.Targets) == 0 {
		return nil, nil, fmt.Errorf("at least one target is required")
	}
	query := "SELECT * FROM " + ParseTargets(in.Targets) + ";"
	return s.run(ctx, query, nil)
}

func (s *Server) handleCreate(ctx context.Context, req *mcp.CallToolRequest, in CreateInput) (*mcp.CallToolResult, any, error) {
	if in.Target == "" {
		return nil, nil, fmt.Errorf("target is required")
	}
	query := "CREATE " + ParseTarget(in.Target)
	var params map[string]any
	if in.Content != nil {
		query += " CONTENT $content"
		params = map[string]any{"content": in.Content}
	}
	return s.run(ctx, query+";", params)
}

func (s *Server) handleInsert(ctx context.Context, req *mcp.CallToolRequest, in InsertInput) (*mcp.CallToolResult, any, error) {
	if in.Table == "" {
		return nil, nil, fmt.Errorf("table is required")
	}
	if in.Data == nil {
		return nil, nil, fmt.Errorf("data is required")
	}
	query := "INSERT INTO " + TableValue(in.Table).SQL() + " $data;"
	return s.run(ctx, query, map[string]any{"data": in.Data})
}

func (s *Server) handleUpsert(ctx context.Context, req *mcp.CallToolRequest, in UpsertInput) (*mcp.CallToolResult, any, error) {
	if in.Target == "" {
		return nil, nil, fmt.Errorf("target is required")
	}
	query := "UPSERT " + ParseTarget(in.Target)
	var params map[string]any
	if in.Content != nil {
		query += " CONTENT $content"
		params = map[string]any{"content": in.Content}
	}
	return s.run(ctx, query+";", params)
}

func (s *Server) handleUpdate(ctx context.Context, req *mcp.CallToolRequest, in UpdateInput) (*mcp.CallToolResult, any, error) {
	if len(in.Targets) == 0 {
		return nil, nil, fmt.Errorf("at least one target is required")
	}
	query := "UPDATE " + ParseTargets(in.Targets)
	var params map[string]any
	if in.Content != nil {
		query += " CONTENT $content"
		params = map[string]any{"content": in.Content}
	}
	return s.run(ctx, query+";", params)
}

func (s *Server) handleDelete(ctx context.Context, req *mcp.CallToolRequest, in DeleteInput) (*mcp.CallToolResult, any, error) {
	if len(in.Targets) == 0 {
		return nil, nil, fmt.Errorf("at least one target is required")
	}
	query := "DELETE " + ParseTargets(in.Targets) + ";"
	return s.run(ctx, query, nil)
}

func (s *Server) handleRelate(ctx context.Context, req *mcp.CallToolRequest, in RelateInput) (*mcp.CallToolResult, any, error) {
	if in.From == "" || in.Relation == "" || in.To == "" {
		return nil, nil, fmt.Errorf("from, relation and to are required")
	}
	query := "RELATE " + ParseTarget(in.From) + "->" + TableValue(in.Relation).SQL() + "->" + ParseTarget(in.To)
	var params map[string]any
	if in.Content != nil {
		query += " CONTENT $content"
		params = map[string]any{"content": in.Content}
	}
	return s.run(ctx, query+";", params)
}
