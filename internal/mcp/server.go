// Package mcp provides a Model Context Protocol server for the draft
// engine. It exposes draft building and single-label match diagnosis as
// MCP tools over stdio, plus the field catalog as a resource, so agent
// frontends can canonicalize listing extractions without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hatch-crm/mlsdraft/internal/draft"
	"github.com/hatch-crm/mlsdraft/internal/match"
	"github.com/hatch-crm/mlsdraft/internal/schema"
	"github.com/hatch-crm/mlsdraft/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Builder *draft.Builder
	Matcher *match.Matcher
	Store   *store.Store // optional; enables the save flag on build
	Version string
}

// dbMu serializes tool calls that touch the store. The mcp-go library
// dispatches handlers concurrently and SQLite supports one writer at a
// time.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with the draft tools and
// catalog resource registered.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"MLS Draft",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	builder := cfg.Builder
	if builder == nil {
		builder = draft.NewBuilder(match.DefaultOptions())
	}
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = match.NewMatcher(match.DefaultOptions())
	}

	registerBuildTool(s, builder, cfg.Store)
	registerMatchTool(s, matcher)
	registerCatalogResource(s)

	return s
}

func registerBuildTool(s *server.MCPServer, builder *draft.Builder, st *store.Store) {
	tool := mcp.NewTool("mls_build_draft",
		mcp.WithDescription("Build a canonical draft listing from a JSON batch of label/value extractions. Returns the draft with per-field confidence, missing-field and warning diagnostics, plus the match audit list."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("batch",
			mcp.Required(),
			mcp.Description(`JSON build input: {"extractions": [{"label", "value", "section", "bold", "uppercase"}], "remarks_list", "remarks_text", "media", "source"}`),
		),
		mcp.WithBoolean("save",
			mcp.Description("Persist the finished draft to the draft store (default: false)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		batch, err := req.RequireString("batch")
		if err != nil {
			return mcp.NewToolResultError("batch is required"), nil
		}

		var in draft.Input
		if err := json.Unmarshal([]byte(batch), &in); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid batch JSON: %v", err)), nil
		}

		res := builder.Build(in)

		var savedID int64
		if save, err := req.RequireBool("save"); err == nil && save {
			if st == nil {
				return mcp.NewToolResultError("save requested but no draft store is configured"), nil
			}
			dbMu.Lock()
			savedID, err = st.SaveDraft(ctx, res)
			dbMu.Unlock()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("saving draft: %v", err)), nil
			}
		}

		payload := map[string]any{
			"draft":   res.Draft,
			"matches": res.Matches,
		}
		if savedID > 0 {
			payload["saved_id"] = savedID
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerMatchTool(s *server.MCPServer, matcher *match.Matcher) {
	tool := mcp.NewTool("mls_match_label",
		mcp.WithDescription("Score a single raw label/value pair against the canonical field catalog. Returns the winning field, typed value, score, and derived values, or no_match."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("The raw field label as extracted from the source document"),
		),
		mcp.WithString("value",
			mcp.Description("The raw value text"),
		),
		mcp.WithString("section",
			mcp.Description("Free-text section name from the source document, if known"),
		),
		mcp.WithBoolean("bold",
			mcp.Description("Whether the label was rendered bold"),
		),
		mcp.WithBoolean("uppercase",
			mcp.Description("Whether the label was rendered in uppercase"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		label, err := req.RequireString("label")
		if err != nil {
			return mcp.NewToolResultError("label is required"), nil
		}

		ex := schema.ExtractedLabelValue{Label: label}
		if v, err := req.RequireString("value"); err == nil {
			ex.Value = v
		}
		if v, err := req.RequireString("section"); err == nil {
			ex.Section = v
		}
		if v, err := req.RequireBool("bold"); err == nil {
			ex.Bold = v
		}
		if v, err := req.RequireBool("uppercase"); err == nil {
			ex.Uppercase = v
		}

		res := matcher.Match(ex)
		if res == nil {
			return mcp.NewToolResultText(`{"no_match": true}`), nil
		}
		data, _ := json.MarshalIndent(res, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerCatalogResource(s *server.MCPServer) {
	resource := mcp.NewResource(
		"mlsdraft://catalog",
		"Field Catalog",
		mcp.WithResourceDescription("Canonical fields, their known label aliases, and the required-field set."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type entry struct {
			Canonical schema.CanonicalField `json:"canonical"`
			Labels    []string              `json:"labels"`
		}
		entries := make([]entry, 0, len(schema.Candidates()))
		for _, c := range schema.Candidates() {
			entries = append(entries, entry{Canonical: c.Canonical, Labels: c.Labels})
		}
		payload := map[string]any{
			"fields":   entries,
			"required": schema.RequiredFields(),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
