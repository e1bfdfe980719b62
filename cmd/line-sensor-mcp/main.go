package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/line-sensor-mcp/internal/config"
	"github.com/ironsheep/line-sensor-mcp/internal/logging"
	"github.com/ironsheep/line-sensor-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("line-sensor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("line-sensor-mcp - MCP server for line-sensor bar detection")
			fmt.Println()
			fmt.Println("Usage: line-sensor-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LINE_MCP_CONFIG=path         YAML file with detection profiles")
			fmt.Println("  LINE_MCP_LOG_LEVEL=debug     Log level (debug, info, warn, error)")
			fmt.Println("  LINE_MCP_PROFILE=name        Default detection profile")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load(os.Getenv("LINE_MCP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout is for MCP protocol
	logger := logging.New(cfg.Logging.Level, os.Stderr)
	logger.Debug("starting line-sensor-mcp",
		"version", Version, "built", BuildTime, "commit", GitCommit,
		"profile", cfg.DefaultProfile)

	server.Version = Version
	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
