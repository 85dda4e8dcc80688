package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"relinker/internal/application/commands"
	"relinker/internal/domain"
)

// RegisterReadTools adds the tools that never modify the project. They
// refresh the index first, so they take mu like the write tools.
func RegisterReadTools(s *server.MCPServer, runner *commands.Runner, mu *sync.Mutex) {
	s.AddTool(planTool(), serialized(mu, planHandler(runner)))
	s.AddTool(dependentsTool(), serialized(mu, dependentsHandler(runner)))
	s.AddTool(resolveTool(), serialized(mu, resolveHandler(runner)))
}

// --- plan ---

func planTool() mcp.Tool {
	return mcp.NewTool("plan",
		mcp.WithDescription("Match the source tree against the reference tree and count the files referencing each source asset. Nothing is modified."),
		mcp.WithString("source_guid",
			mcp.Description("GUID of the source root folder. Defaults to the configured source."),
		),
		mcp.WithString("reference_guid",
			mcp.Description("GUID of the reference root folder. Defaults to the configured reference."),
		),
	)
}

func planHandler(runner *commands.Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plan, err := withRoots(runner, req).Plan(ctx, nil)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatPlan(plan)), nil
	}
}

func formatPlan(plan *commands.PlanResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s (%s)\n", plan.Match.Source.RootPath, plan.Match.Source.RootGUID)
	fmt.Fprintf(&sb, "Reference: %s (%s)\n", plan.Match.Reference.RootPath, plan.Match.Reference.RootGUID)
	fmt.Fprintf(&sb, "%s\n", plan.Message)
	fmt.Fprintf(&sb, "References found: %d\n", plan.References)
	for _, e := range plan.Entries {
		fmt.Fprintf(&sb, "%d  %s -> %s\n", e.Dependents, e.OldPath, e.NewPath)
	}
	return sb.String()
}

// --- dependents ---

func dependentsTool() mcp.Tool {
	return mcp.NewTool("dependents",
		mcp.WithDescription("List the files whose content or metadata references a GUID."),
		mcp.WithString("guid",
			mcp.Description("Asset GUID (32 hex characters)"),
			mcp.Required(),
		),
	)
}

func dependentsHandler(runner *commands.Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		guid, err := guidArg(req)
		if err != nil {
			return toolError(err)
		}

		dependents, err := runner.Dependents(ctx, guid)
		if err != nil {
			return toolError(err)
		}
		if len(dependents) == 0 {
			return mcp.NewToolResultText("No references found."), nil
		}
		return mcp.NewToolResultText(strings.Join(dependents, "\n") + "\n"), nil
	}
}

// --- resolve ---

func resolveTool() mcp.Tool {
	return mcp.NewTool("resolve",
		mcp.WithDescription("Get the project-relative location of a GUID."),
		mcp.WithString("guid",
			mcp.Description("Asset GUID (32 hex characters)"),
			mcp.Required(),
		),
	)
}

func resolveHandler(runner *commands.Runner) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		guid, err := guidArg(req)
		if err != nil {
			return toolError(err)
		}

		location, err := runner.Resolve(guid)
		if err != nil {
			return toolError(err)
		}
		if location == "" {
			return toolError(fmt.Errorf("guid %s not found", guid))
		}
		return mcp.NewToolResultText(location), nil
	}
}

// --- helpers ---

func guidArg(req mcp.CallToolRequest) (string, error) {
	guid := req.GetString("guid", "")
	if guid == "" {
		return "", fmt.Errorf("guid is required")
	}
	if !domain.IsGUID(guid) {
		return "", fmt.Errorf("invalid guid %q: expected 32 hex characters", guid)
	}
	return guid, nil
}

func withRoots(runner *commands.Runner, req mcp.CallToolRequest) *commands.Runner {
	return runner.WithRoots(req.GetString("source_guid", ""), req.GetString("reference_guid", ""))
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
