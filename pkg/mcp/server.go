package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/catalog"
	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/models"
)

const (
	serverName    = "docnav"
	serverVersion = "0.4.0"
)

// Catalog is the read side of the document catalog the tools query
type Catalog interface {
	Collections() []catalog.CollectionInfo
	Documents(category string) ([]models.DocumentRef, error)
	Entry(category, slug string) (models.DocumentEntry, error)
}

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	AppConfig  *config.AppConfig
	Catalog    Catalog
	ConfigPath string
	Transport  string // "stdio" or "sse"
	Port       int
	Logger     *logrus.Logger
}

// Server wraps the MCP server with docnav specific tools
type Server struct {
	mcpServer *server.MCPServer
	cfg       *ServerConfig
	log       *logrus.Entry
}

// NewServer creates a new MCP server instance
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("AppConfig is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("Catalog is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		log:       cfg.Logger.WithField("component", "mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// list_documents - List indexed documents
	listDocumentsTool := mcp.NewTool("list_documents",
		mcp.WithDescription("List the documentation collections and their indexed documents"),
		mcp.WithString("category",
			mcp.Description("Limit the listing to one collection (optional)"),
		),
	)
	s.mcpServer.AddTool(listDocumentsTool, s.handleListDocuments)

	// get_toc - Table of contents of one document
	getTOCTool := mcp.NewTool("get_toc",
		mcp.WithDescription("Get the section index (table of contents) of a document, with stable anchor ids"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Collection key from config file (e.g., 'guides', 'blog')"),
		),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Document slug as returned by list_documents"),
		),
		mcp.WithString("active",
			mcp.Description("Heading id to mark as active in the rendered panel (optional)"),
		),
		mcp.WithString("format",
			mcp.Description("'json' (default) or 'text' for the rendered panel only"),
			mcp.Enum("json", "text"),
		),
	)
	s.mcpServer.AddTool(getTOCTool, s.handleGetTOC)

	// compute_active - Run the scroll-spy against a position snapshot
	computeActiveTool := mcp.NewTool("compute_active",
		mcp.WithDescription("Compute which section of a document is being read, given heading offsets from the viewport top"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Collection key"),
		),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Document slug"),
		),
		mcp.WithObject("positions",
			mcp.Required(),
			mcp.Description("Map of mounted heading id to its offset from the viewport top"),
		),
		mcp.WithString("previous",
			mcp.Description("Previously active heading id, returned when no heading qualifies"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Activation threshold (defaults to the configured navigation.activation_threshold)"),
		),
	)
	s.mcpServer.AddTool(computeActiveTool, s.handleComputeActive)

	s.log.Infof("Registered %d MCP tools", 3)
}

// Run starts the MCP server with the configured transport
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		sseServer := server.NewSSEServer(s.mcpServer)
		return sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down MCP server...")
	return nil
}
