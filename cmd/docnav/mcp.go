package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/catalog"
	"github.com/Sriram-PR/docnav/pkg/mcp"
)

// runMcpServer handles the mcp-server subcommand
func runMcpServer(args []string) {
	fs := flag.NewFlagSet("mcp-server", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	transport := fs.String("transport", "stdio", "Transport type (stdio, sse)")
	port := fs.Int("port", 8081, "HTTP port (for sse transport)")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: docnav mcp-server [options]

Start an MCP (Model Context Protocol) server for AI tool integration.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Start with stdio transport
  docnav mcp-server -config config.yaml

  # Start with SSE transport on port 8081
  docnav mcp-server -config config.yaml -transport sse -port 8081

Available MCP Tools:
  list_documents  List collections and indexed documents
  get_toc         Section index of a document, with anchor ids
  compute_active  Run the scroll-spy against heading offsets
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doMcpServer(*configFile, *transport, *port, *logLevel, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// newMcpServer builds the MCP server over a freshly loaded catalog
func newMcpServer(configPath, transport string, port int, log *logrus.Logger) (*mcp.Server, error) {
	appCfg, err := loadAndValidateConfig(configPath, log)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(appCfg, nil, log.WithField("component", "catalog"))
	if _, err := cat.Load(context.Background()); err != nil {
		return nil, err
	}

	return mcp.NewServer(&mcp.ServerConfig{
		AppConfig:  appCfg,
		Catalog:    cat,
		ConfigPath: configPath,
		Transport:  transport,
		Port:       port,
		Logger:     log,
	})
}

// doMcpServer is the testable implementation of the MCP server
func doMcpServer(configPath, transport string, port int, logLevel string, stdout, stderr io.Writer) int {
	// MCP protocol uses stdout, logs go to stderr
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level: %s\n", logLevel)
		return 1
	}
	log := setupLogger(logLevel, stderr)
	log.SetLevel(level)

	if transport != "stdio" && transport != "sse" {
		fmt.Fprintf(stderr, "Unknown transport: %s (supported: stdio, sse)\n", transport)
		return 1
	}

	server, err := newMcpServer(configPath, transport, port, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	if err := server.Run(); err != nil {
		fmt.Fprintf(stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
