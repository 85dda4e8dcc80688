package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"relinker/internal/application"
	"relinker/internal/application/commands"
)

// RegisterWriteTools adds the tools that modify the project or its index.
func RegisterWriteTools(s *server.MCPServer, runner *commands.Runner, mu *sync.Mutex) {
	s.AddTool(relinkTool(), serialized(mu, relinkHandler(runner)))
	s.AddTool(reindexTool(), serialized(mu, reindexHandler(runner)))
}

// --- relink ---

func relinkTool() mcp.Tool {
	return mcp.NewTool("relink",
		mcp.WithDescription("Give every source asset the GUID of its counterpart in the reference tree and rewrite all references. Files are modified in place; run plan first."),
		mcp.WithString("source_guid",
			mcp.Description("GUID of the source root folder. Defaults to the configured source."),
		),
		mcp.WithString("reference_guid",
			mcp.Description("GUID of the reference root folder. Defaults to the configured reference."),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true to perform the relink"),
			mcp.Required(),
		),
	)
}

func relinkHandler(runner *commands.Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !req.GetBool("confirm", false) {
			return toolError(fmt.Errorf("relink modifies files in place: call again with confirm set to true"))
		}

		result, err := withRoots(runner, req).Relink(ctx, nil)
		if err != nil {
			if result != nil && result.Report != nil && result.Report.Updated() > 0 {
				return toolError(fmt.Errorf("%w\n\nRelinked before the failure:\n%s", err, result.Report.Format(application.Version)))
			}
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message + "\n\n" + result.Report.Format(application.Version)), nil
	}
}

// --- reindex ---

func reindexTool() mcp.Tool {
	return mcp.NewTool("reindex",
		mcp.WithDescription("Refresh the asset index after files were changed outside the relinker."),
	)
}

func reindexHandler(runner *commands.Runner) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := runner.Reindex(); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Index updated."), nil
	}
}
