package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleMCPRequest_Initialize(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	}
	resp := handleMCPRequest(req)

	if resp.JSONRPC != "2.0" {
		t.Errorf("expected jsonrpc 2.0, got %s", resp.JSONRPC)
	}
	if resp.Error != nil {
		t.Errorf("expected no error, got %v", resp.Error)
	}
	if resp.Result == nil {
		t.Fatal("expected result, got nil")
	}

	result, ok := resp.Result.(mcpInitializeResult)
	if !ok {
		t.Fatalf("expected mcpInitializeResult, got %T", resp.Result)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("expected protocol version 2024-11-05, got %s", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "issue-materializer" {
		t.Errorf("expected server name issue-materializer, got %s", result.ServerInfo.Name)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be non-nil")
	}
}

func TestHandleMCPRequest_Initialized(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}
	resp := handleMCPRequest(req)

	// Notifications should return empty response (no JSONRPC set)
	if resp.JSONRPC != "" {
		t.Errorf("expected empty jsonrpc for notification, got %s", resp.JSONRPC)
	}
}

func TestHandleMCPRequest_ToolsList(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	}
	resp := handleMCPRequest(req)

	if resp.Error != nil {
		t.Errorf("expected no error, got %v", resp.Error)
	}

	result, ok := resp.Result.(mcpToolsListResult)
	if !ok {
		t.Fatalf("expected mcpToolsListResult, got %T", resp.Result)
	}
	if len(result.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "materialize_issues" {
		t.Errorf("expected tool name materialize_issues, got %s", result.Tools[0].Name)
	}
	if len(result.Tools[0].InputSchema) == 0 {
		t.Error("expected non-empty input schema")
	}
}

func TestHandleMCPRequest_UnknownMethod(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`3`),
		Method:  "unknown/method",
	}
	resp := handleMCPRequest(req)

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("expected error code -32601, got %d", resp.Error.Code)
	}
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`4`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"nonexistent","arguments":{}}`),
	}
	resp := handleMCPRequest(req)

	result, ok := resp.Result.(mcpToolCallResult)
	if !ok {
		t.Fatalf("expected mcpToolCallResult, got %T", resp.Result)
	}
	if !result.IsError {
		t.Error("expected IsError to be true for unknown tool")
	}
}

func TestHandleToolCall_InvalidParams(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`5`),
		Method:  "tools/call",
		Params:  json.RawMessage(`not-json`),
	}
	resp := handleMCPRequest(req)

	if resp.Error == nil {
		t.Fatal("expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("expected error code -32602, got %d", resp.Error.Code)
	}
}

func TestHandleToolCall_InvalidArguments(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`6`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"materialize_issues","arguments":"not-an-object"}`),
	}
	resp := handleMCPRequest(req)

	result, ok := resp.Result.(mcpToolCallResult)
	if !ok {
		t.Fatalf("expected mcpToolCallResult, got %T", resp.Result)
	}
	if !result.IsError {
		t.Error("expected IsError to be true for invalid arguments JSON")
	}
}

func TestHandleToolCall_MissingFragment(t *testing.T) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`7`),
		Method:  "tools/call",
		Params: json.RawMessage(`{"name":"materialize_issues","arguments":{
			"setup_guide":"/nonexistent/setup.md",
			"typescript_plan":"/nonexistent/plan.md",
			"storage_analysis":"/nonexistent/analysis.md"}}`),
	}
	resp := handleMCPRequest(req)

	result, ok := resp.Result.(mcpToolCallResult)
	if !ok {
		t.Fatalf("expected mcpToolCallResult, got %T", resp.Result)
	}
	if !result.IsError {
		t.Error("expected IsError to be true when a fragment is unreadable")
	}
}

func TestHandleToolCall_MaterializesAllIssues(t *testing.T) {
	fragDir := t.TempDir()
	outDir := t.TempDir()
	for _, name := range []string{"setup.md", "plan.md", "analysis.md"} {
		if err := os.WriteFile(filepath.Join(fragDir, name), []byte("fragment content for "+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	args := materializeArgs{
		OutputDir:       outDir,
		SetupGuide:      filepath.Join(fragDir, "setup.md"),
		TypeScriptPlan:  filepath.Join(fragDir, "plan.md"),
		StorageAnalysis: filepath.Join(fragDir, "analysis.md"),
	}
	argsJSON, _ := json.Marshal(args)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`8`),
		Method:  "tools/call",
		Params:  json.RawMessage(fmt.Sprintf(`{"name":"materialize_issues","arguments":%s}`, argsJSON)),
	}
	resp := handleMCPRequest(req)

	result, ok := resp.Result.(mcpToolCallResult)
	if !ok {
		t.Fatalf("expected mcpToolCallResult, got %T", resp.Result)
	}
	if result.IsError {
		t.Fatalf("tool call failed: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `"created":9`) {
		t.Errorf("expected report with 9 created files, got %s", result.Content[0].Text)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 9 {
		t.Fatalf("expected 9 files, got %d", len(entries))
	}
	for n := 1; n <= 9; n++ {
		name := fmt.Sprintf("issue-%02d.md", n)
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		content := string(data)
		if !strings.HasPrefix(content, "# ") {
			t.Errorf("%s does not start with a level-1 heading", name)
		}
		if !strings.Contains(content, "**Milestone:** ") || !strings.Contains(content, "**Labels:** ") {
			t.Errorf("%s is missing the header block", name)
		}
	}
}

func TestHandleMCPRequest_IDPreserved(t *testing.T) {
	// String ID
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`"abc-123"`),
		Method:  "tools/list",
	}
	resp := handleMCPRequest(req)
	if string(resp.ID) != `"abc-123"` {
		t.Errorf("expected ID \"abc-123\", got %s", string(resp.ID))
	}

	// Numeric ID
	req2 := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`42`),
		Method:  "initialize",
	}
	resp2 := handleMCPRequest(req2)
	if string(resp2.ID) != `42` {
		t.Errorf("expected ID 42, got %s", string(resp2.ID))
	}
}
