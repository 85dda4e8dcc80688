package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "relinker/internal/adapters/mcp"
	"relinker/internal/application"
	"relinker/internal/bootstrap"
	"relinker/internal/config"
	"relinker/internal/logging"
)

func main() {
	envFlag := flag.String("env-file", "", "load settings from this file instead of ./.env")
	projectFlag := flag.String("project", "", "project directory")
	flag.Parse()

	var files []string
	if *envFlag != "" {
		files = append(files, *envFlag)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("relinker-mcp: %v", err)
	}
	if *projectFlag != "" {
		cfg.ProjectPath = *projectFlag
	}

	// stdout carries the protocol, so logs go to stderr or the configured file
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("relinker-mcp: %v", err)
	}

	env, err := bootstrap.Open(cfg, logger)
	if err != nil {
		log.Fatalf("relinker-mcp: %v", err)
	}
	defer env.Close()

	if err := env.Sync(); err != nil {
		env.Close()
		log.Fatalf("relinker-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"relinker-mcp",
		application.Version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterTools(mcpServer, env.Runner)

	if err := server.ServeStdio(mcpServer); err != nil {
		env.Close()
		log.Fatalf("relinker-mcp: %v", err)
	}
}
