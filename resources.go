package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var instructionsText string

// ResourceProvider describes one static resource the server exposes.
type ResourceProvider interface {
	URI() string
	Name() string
	Description() string
	MIMEType() string
	Content() string
}

type instructionsResource struct{}

func (instructionsResource) URI() string  { return "surrealmcp://instructions" }
func (instructionsResource) Name() string { return "SurrealMCP Instructions" }
func (instructionsResource) Description() string {
	return "Full instructions and guidelines for the SurrealDB MCP server"
}
func (instructionsResource) MIMEType() string { return "text/markdown" }
func (instructionsResource) Content() string  { return instructionsText }

// resourceProviders lists every available resource.
func resourceProviders() []ResourceProvider {
	return []ResourceProvider{instructionsResource{}}
}

// findResource returns the provider registered under uri, if any.
func findResource(uri string) ResourceProvider {
	for _, p := range resourceProviders() {
		if p.URI() == uri {
			return p
		}
	}
	return nil
}

// readResource resolves a read request against the registry.
func readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	p := findResource(req.Params.URI)
	if p == nil {
		return nil, fmt.Errorf("resource not found: %s", req.Params.URI)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      p.URI(),
			MIMEType: p.MIMEType(),
			Text:     p.Content(),
		}},
	}, nil
}

func (s *Server) registerResources() {
	for _, p := range resourceProviders() {
		s.mcpServer.AddResource(&mcp.Resource{
			URI:         p.URI(),
			Name:        p.Name(),
			Description: p.Description(),
			MIMEType:    p.MIMEType(),
		}, readResource)
	}
}
