package main

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionsResource(t *testing.T) {
	r := instructionsResource{}
	assert.Equal(t, "surrealmcp://instructions", r.URI())
	assert.Equal(t, "SurrealMCP Instructions", r.Name())
	assert.Equal(t, "text/markdown", r.MIMEType())
	assert.NotEmpty(t, r.Content())
}

func TestResourceRegistry(t *testing.T) {
	providers := resourceProviders()
	require.NotEmpty(t, providers)
	assert.Equal(t, "surrealmcp://instructions", providers[0].URI())

	found := findResource("surrealmcp://instructions")
	require.NotNil(t, found)
	assert.Equal(t, "surrealmcp://instructions", found.URI())

	assert.Nil(t, findResource("surrealmcp://non-existent"))
}

func TestReadResource(t *testing.T) {
	result, err := readResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "surrealmcp://instructions"},
	})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "surrealmcp://instructions", result.Contents[0].URI)
	assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
	assert.Equal(t, instructionsText, result.Contents[0].Text)
}

func TestReadResourceUnknownURI(t *testing.T) {
	_, err := readResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "surrealmcp://missing"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surrealmcp://missing")
}
