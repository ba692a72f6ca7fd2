package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/scrollspy"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/utils"
)

// handleListDocuments handles the list_documents tool
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")

	refs, err := s.cfg.Catalog.Documents(category)
	if err != nil {
		return toolError(err), nil
	}

	documents := make([]map[string]interface{}, 0, len(refs))
	for _, ref := range refs {
		documents = append(documents, map[string]interface{}{
			"category":  ref.Category,
			"slug":      ref.Slug,
			"title":     ref.Title,
			"file_name": ref.FileName,
			"format":    ref.Format,
		})
	}

	result := map[string]interface{}{
		"collections":     s.cfg.Catalog.Collections(),
		"documents":       documents,
		"total_documents": len(documents),
		"config_path":     s.cfg.ConfigPath,
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleGetTOC handles the get_toc tool
func (s *Server) handleGetTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	slug := request.GetString("slug", "")
	if category == "" || slug == "" {
		return mcp.NewToolResultError("category and slug parameters are required"), nil
	}

	entry, err := s.cfg.Catalog.Entry(category, slug)
	if err != nil {
		return toolError(err), nil
	}

	active := request.GetString("active", "")
	panel := toc.FormatPanel(entry.Headings, active)
	if request.GetString("format", "json") == "text" {
		return mcp.NewToolResultText(panel), nil
	}

	result := map[string]interface{}{
		"category":  category,
		"slug":      slug,
		"title":     entry.Ref.Title,
		"file_name": entry.Ref.FileName,
		"headings":  entry.Headings,
		"panel":     panel,
	}
	if entry.ErrorType != "" {
		result["error_type"] = entry.ErrorType
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleComputeActive handles the compute_active tool
func (s *Server) handleComputeActive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	slug := request.GetString("slug", "")
	if category == "" || slug == "" {
		return mcp.NewToolResultError("category and slug parameters are required"), nil
	}

	positions, err := parsePositions(request.GetArguments()["positions"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.cfg.Catalog.Entry(category, slug)
	if err != nil {
		return toolError(err), nil
	}

	threshold := request.GetFloat("threshold", config.GetEffectiveActivationThreshold(*s.cfg.AppConfig))
	spy := scrollspy.New(threshold)
	previous := request.GetString("previous", "")
	active := spy.ComputeActive(entry.Headings, scrollspy.Positions(positions), previous)

	mounted := make([]string, 0, len(positions))
	for id := range positions {
		mounted = append(mounted, id)
	}
	sort.Strings(mounted)

	result := map[string]interface{}{
		"active":    active,
		"changed":   active != previous,
		"threshold": spy.Threshold,
		"mounted":   mounted,
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// parsePositions accepts the positions argument as a JSON object or a JSON-encoded string
func parsePositions(raw interface{}) (map[string]float64, error) {
	positions := make(map[string]float64)
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("positions parameter is required")
	case map[string]interface{}:
		for id, off := range v {
			f, ok := off.(float64)
			if !ok {
				return nil, fmt.Errorf("position of '%s' must be a number", id)
			}
			positions[id] = f
		}
	case string:
		if err := json.Unmarshal([]byte(v), &positions); err != nil {
			return nil, fmt.Errorf("invalid positions JSON: %v", err)
		}
	default:
		return nil, fmt.Errorf("positions must be an object of heading id to offset")
	}
	return positions, nil
}

// toolError renders a lookup error with its category
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%v (category: %s)", err, utils.CategorizeError(err)))
}

// formatJSON formats data as indented JSON
func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(b)
}
