// Package mcptools exposes the Vault Manager (C9) as an MCP tool surface
// (D7), a thin JSON-in/JSON-out adapter with no parsing, graph, or edit
// logic of its own. Handler shape and error/result conventions are
// grounded on the retrieval pack's existing `mark3labs/mcp-go` vault
// integrations: the args-map-then-type-assert pattern and
// mcp.NewToolResultError/mcp.NewToolResultText responses from
// Yakitrak-obsidian-cli's pkg/mcp/tools.go, and the per-operation handler
// methods (ForwardLinksHandler, OrphanNotesHandler, BrokenLinksHandler)
// from zach-snell-obx's internal/vault/graph.go.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/RamXX/vlt/internal/batch"
	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/vaultmgr"
)

// Config binds the tool surface to one Vault Manager instance.
type Config struct {
	Manager   *vaultmgr.Manager
	ReadWrite bool // mutating tools return an error when false, unless dryRun is requested
}

// Register attaches every vlt MCP tool to s.
func Register(s *server.MCPServer, cfg Config) {
	s.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the raw content of a note by vault-relative path"),
		mcp.WithString("path", mcp.Required(), mcp.Description("vault-relative path to the note")),
	), ReadNoteTool(cfg))

	s.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Write (create or overwrite) a note's content"),
		mcp.WithString("path", mcp.Required()),
		mcp.WithString("content", mcp.Required()),
	), WriteNoteTool(cfg))

	s.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Apply a SEARCH/REPLACE edit payload to a note"),
		mcp.WithString("path", mcp.Required()),
		mcp.WithString("payload", mcp.Required(), mcp.Description("one or more <<<<<<< SEARCH/=======/>>>>>>> REPLACE blocks")),
		mcp.WithString("expectedHash", mcp.Description("SHA-256 hash guard; empty skips the check")),
		mcp.WithBoolean("dryRun", mcp.Description("compute the result without writing it")),
	), EditNoteTool(cfg))

	s.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note from the vault"),
		mcp.WithString("path", mcp.Required()),
	), DeleteNoteTool(cfg))

	s.AddTool(mcp.NewTool("move_note",
		mcp.WithDescription("Move or rename a note"),
		mcp.WithString("source", mcp.Required()),
		mcp.WithString("target", mcp.Required()),
	), MoveNoteTool(cfg))

	s.AddTool(mcp.NewTool("backlinks",
		mcp.WithDescription("List notes linking to the given note"),
		mcp.WithString("path", mcp.Required()),
	), BacklinksTool(cfg))

	s.AddTool(mcp.NewTool("forward_links",
		mcp.WithDescription("List notes the given note links to"),
		mcp.WithString("path", mcp.Required()),
	), ForwardLinksTool(cfg))

	s.AddTool(mcp.NewTool("related_notes",
		mcp.WithDescription("List notes reachable within a bounded hop count, undirected"),
		mcp.WithString("path", mcp.Required()),
		mcp.WithNumber("maxHops", mcp.Description("defaults to 2")),
	), RelatedNotesTool(cfg))

	s.AddTool(mcp.NewTool("orphan_notes",
		mcp.WithDescription("List notes with no incoming or outgoing links"),
	), OrphanNotesTool(cfg))

	s.AddTool(mcp.NewTool("broken_links",
		mcp.WithDescription("List links whose target note does not exist"),
	), BrokenLinksTool(cfg))

	s.AddTool(mcp.NewTool("vault_stats",
		mcp.WithDescription("Report Link Graph connectivity statistics"),
	), VaultStatsTool(cfg))

	s.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search over indexed note content"),
		mcp.WithString("query", mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("defaults to 20")),
	), SearchNotesTool(cfg))

	s.AddTool(mcp.NewTool("scan_vault",
		mcp.WithDescription("Rebuild the parsed-file index and Link Graph from disk"),
	), ScanVaultTool(cfg))

	s.AddTool(mcp.NewTool("execute_batch",
		mcp.WithDescription("Run a sequence of file operations as one all-or-nothing transaction"),
		mcp.WithArray("operations", mcp.Required(), mcp.Description("array of {kind, path, dest, content, editPayload, expectedHash}")),
	), ExecuteBatchTool(cfg))
}

func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s parameter is required and must be a non-empty string", key)
	}
	return v, nil
}

func optionalInt(args map[string]any, key string, def int) int {
	v, ok := args[key].(float64)
	if !ok {
		return def
	}
	return int(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %s", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// ReadNoteTool implements the read_note MCP tool.
func ReadNoteTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := cfg.Manager.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error reading %s: %s", path, err)), nil
		}
		return mcp.NewToolResultText(string(content)), nil
	}
}

// WriteNoteTool implements the write_note MCP tool.
func WriteNoteTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !cfg.ReadWrite {
			return mcp.NewToolResultError("server is in read-only mode; enable --read-write to write notes"), nil
		}
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, _ := args["content"].(string)
		if err := cfg.Manager.WriteFile(path, []byte(content)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error writing %s: %s", path, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("wrote %s (%d bytes)", path, len(content))), nil
	}
}

// EditResultResponse is the JSON shape returned by edit_note.
type EditResultResponse struct {
	Path    string `json:"path"`
	OldHash string `json:"oldHash"`
	NewHash string `json:"newHash"`
	Diff    string `json:"diff"`
	DryRun  bool   `json:"dryRun"`
}

// EditNoteTool implements the edit_note MCP tool.
func EditNoteTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		payload, err := requireString(args, "payload")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		expectedHash, _ := args["expectedHash"].(string)
		dryRun, _ := args["dryRun"].(bool)

		if !cfg.ReadWrite && !dryRun {
			return mcp.NewToolResultError("server is in read-only mode; either enable --read-write or set dryRun=true"), nil
		}

		blocks := editengine.ParseBlocks(payload)
		if len(blocks) == 0 {
			return mcp.NewToolResultError("payload contains no valid SEARCH/REPLACE blocks"), nil
		}

		result, err := cfg.Manager.EditFile(path, blocks, expectedHash, dryRun)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("edit failed: %s", err)), nil
		}

		return jsonResult(EditResultResponse{
			Path:    path,
			OldHash: result.OldHash,
			NewHash: result.NewHash,
			Diff:    result.Diff,
			DryRun:  dryRun,
		})
	}
}

// DeleteNoteTool implements the delete_note MCP tool.
func DeleteNoteTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !cfg.ReadWrite {
			return mcp.NewToolResultError("server is in read-only mode; enable --read-write to delete notes"), nil
		}
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := cfg.Manager.DeleteFile(path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error deleting %s: %s", path, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %s", path)), nil
	}
}

// MoveNoteTool implements the move_note MCP tool.
func MoveNoteTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !cfg.ReadWrite {
			return mcp.NewToolResultError("server is in read-only mode; enable --read-write to move notes"), nil
		}
		args := request.GetArguments()
		source, err := requireString(args, "source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := requireString(args, "target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := cfg.Manager.MoveFile(source, target); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error moving %s to %s: %s", source, target, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("moved %s to %s", source, target)), nil
	}
}

// BacklinksTool implements the backlinks MCP tool.
func BacklinksTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(cfg.Manager.Backlinks(path))
	}
}

// ForwardLinksTool implements the forward_links MCP tool.
func ForwardLinksTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(cfg.Manager.ForwardLinks(path))
	}
}

// RelatedNotesTool implements the related_notes MCP tool.
func RelatedNotesTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path, err := requireString(args, "path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		maxHops := optionalInt(args, "maxHops", 2)
		return jsonResult(cfg.Manager.Related(path, maxHops))
	}
}

// OrphanNotesTool implements the orphan_notes MCP tool.
func OrphanNotesTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(cfg.Manager.Orphans())
	}
}

// BrokenLinksTool implements the broken_links MCP tool.
func BrokenLinksTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(cfg.Manager.BrokenLinks())
	}
}

// VaultStatsTool implements the vault_stats MCP tool.
func VaultStatsTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(cfg.Manager.Stats())
	}
}

// SearchNotesTool implements the search_notes MCP tool.
func SearchNotesTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query, err := requireString(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := optionalInt(args, "limit", 20)
		results, err := cfg.Manager.Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %s", err)), nil
		}
		return jsonResult(results)
	}
}

// ScanVaultTool implements the scan_vault MCP tool.
func ScanVaultTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := cfg.Manager.Scan(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scan failed: %s", err)), nil
		}
		return jsonResult(cfg.Manager.Stats())
	}
}

// BatchResultResponse is the JSON shape returned by execute_batch.
type BatchResultResponse struct {
	Success       bool   `json:"success"`
	ExecutedCount int    `json:"executedCount"`
	FailingIndex  int    `json:"failingIndex,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ExecuteBatchTool implements the execute_batch MCP tool.
func ExecuteBatchTool(cfg Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !cfg.ReadWrite {
			return mcp.NewToolResultError("server is in read-only mode; enable --read-write to execute batches"), nil
		}
		args := request.GetArguments()
		raw, ok := args["operations"].([]any)
		if !ok {
			return mcp.NewToolResultError("operations parameter is required and must be an array"), nil
		}

		ops := make([]batch.Op, 0, len(raw))
		for i, r := range raw {
			obj, ok := r.(map[string]any)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("operations[%d] must be an object", i)), nil
			}
			op, err := decodeOp(obj)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("operations[%d]: %s", i, err)), nil
			}
			ops = append(ops, op)
		}

		result := cfg.Manager.ExecuteBatch(ops)
		resp := BatchResultResponse{
			Success:       result.Success,
			ExecutedCount: result.ExecutedCount,
			FailingIndex:  result.FailingIndex,
		}
		if result.Error != nil {
			resp.Error = result.Error.Error()
		}
		return jsonResult(resp)
	}
}

func decodeOp(obj map[string]any) (batch.Op, error) {
	kind, _ := obj["kind"].(string)
	if kind == "" {
		return batch.Op{}, fmt.Errorf("kind is required")
	}
	path, _ := obj["path"].(string)
	dest, _ := obj["dest"].(string)
	content, _ := obj["content"].(string)
	expectedHash, _ := obj["expectedHash"].(string)

	op := batch.Op{
		Kind:         batch.Kind(kind),
		Path:         path,
		Dest:         dest,
		Content:      []byte(content),
		ExpectedHash: expectedHash,
	}
	if payload, ok := obj["editPayload"].(string); ok && payload != "" {
		op.EditBlocks = editengine.ParseBlocks(payload)
	}
	return op, nil
}
