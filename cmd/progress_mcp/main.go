// Package main runs the exercise progress MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main service at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	progressmcp "github.com/2beens/gymprogress/internal/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	offline := flag.Bool("offline", false, "never call the remote analytics service")
	flag.Parse()

	// stdout is the MCP channel
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	backend, err := internal.NewBackend(ctx, internal.BackendParams{
		Config:        cfg,
		RedisPassword: os.Getenv("GYMPROGRESS_REDIS_PASS"),
		DBPassword:    os.Getenv("GYMPROGRESS_DB_PASS"),
		Offline:       *offline,
	})
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Errorf("close backend: %v", err)
		}
	}()

	server := progressmcp.NewServer(backend.Service)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %v", err)
	}
}
