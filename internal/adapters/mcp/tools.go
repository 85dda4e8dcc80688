package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"relinker/internal/application/commands"
)

// RegisterTools adds every relinker tool. All calls share one lock, so a
// plan never observes a relink halfway through.
func RegisterTools(s *server.MCPServer, runner *commands.Runner) {
	var mu sync.Mutex
	RegisterReadTools(s, runner, &mu)
	RegisterWriteTools(s, runner, &mu)
}

func serialized(mu *sync.Mutex, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mu.Lock()
		defer mu.Unlock()
		return h(ctx, req)
	}
}
