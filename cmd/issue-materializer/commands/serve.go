package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goblinsan/issue-materializer/pkg/catalog"
	"github.com/goblinsan/issue-materializer/pkg/engine"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// JSON-RPC 2.0 types for MCP protocol
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP protocol types
type mcpInitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    mcpCapabilities `json:"capabilities"`
	ServerInfo      mcpServerInfo   `json:"serverInfo"`
}

type mcpCapabilities struct {
	Tools *struct{} `json:"tools,omitempty"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpToolsListResult struct {
	Tools []mcpToolDef `json:"tools"`
}

type mcpToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type mcpToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type mcpToolCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// materializeArgs are the tool arguments, mirroring the generate command flags.
type materializeArgs struct {
	OutputDir       string `json:"output_dir"`
	SetupGuide      string `json:"setup_guide"`
	TypeScriptPlan  string `json:"typescript_plan"`
	StorageAnalysis string `json:"storage_analysis"`
	DryRun          bool   `json:"dry_run"`
}

var materializeToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "output_dir": {"type": "string", "description": "Directory to write the issue files into (default: current directory)"},
    "setup_guide": {"type": "string", "description": "Path to the setup guide fragment (issue 1 body)"},
    "typescript_plan": {"type": "string", "description": "Path to the TypeScript migration fragment (issue 2 body)"},
    "storage_analysis": {"type": "string", "description": "Path to the storage analysis fragment (issue 3 body)"},
    "dry_run": {"type": "boolean", "description": "Preview what would be created without writing files"}
  },
  "required": ["setup_guide", "typescript_plan", "storage_analysis"]
}`)

func handleMCPRequest(req jsonRPCRequest) jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpInitializeResult{
				ProtocolVersion: "2024-11-05",
				Capabilities:    mcpCapabilities{Tools: &struct{}{}},
				ServerInfo:      mcpServerInfo{Name: "issue-materializer", Version: Version},
			},
		}

	case "notifications/initialized":
		// Client acknowledgment, no response needed (notification, no ID)
		return jsonRPCResponse{}

	case "tools/list":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolsListResult{
				Tools: []mcpToolDef{
					{
						Name:        "materialize_issues",
						Description: "Renders the built-in issue catalog into markdown files in the output directory, skipping files that already exist.",
						InputSchema: materializeToolSchema,
					},
				},
			},
		}

	case "tools/call":
		return handleToolCall(req)

	default:
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)},
		}
	}
}

func handleToolCall(req jsonRPCRequest) jsonRPCResponse {
	var params mcpToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)},
		}
	}

	if params.Name != "materialize_issues" {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolCallResult{
				Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("unknown tool: %s", params.Name)}},
				IsError: true,
			},
		}
	}

	var args materializeArgs
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolCallResult{
				Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("failed to parse arguments: %v", err)}},
				IsError: true,
			},
		}
	}

	cat, err := catalog.Build(catalog.Sources{
		SetupGuide:      args.SetupGuide,
		TypeScriptPlan:  args.TypeScriptPlan,
		StorageAnalysis: args.StorageAnalysis,
	})
	if err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolCallResult{
				Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("failed to build catalog: %v", err)}},
				IsError: true,
			},
		}
	}

	outputDir := args.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	report, err := engine.Materialize(cat, engine.Options{
		OutputDir: outputDir,
		DryRun:    args.DryRun,
	})
	if err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolCallResult{
				Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("materialize failed: %v", err)}},
				IsError: true,
			},
		}
	}

	reportJSON, _ := json.Marshal(report)
	return jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: mcpToolCallResult{
			Content: []mcpContent{{Type: "text", Text: string(reportJSON)}},
		},
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long:  `Run the MCP server to allow AI agents (Claude, Gemini, etc.) to interact with the tool via the Model Context Protocol over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(os.Stdin)
		// Increase buffer for large payloads (1 MB)
		scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
		encoder := json.NewEncoder(os.Stdout)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var req jsonRPCRequest
			if err := json.Unmarshal(line, &req); err != nil {
				resp := jsonRPCResponse{
					JSONRPC: "2.0",
					Error:   &jsonRPCError{Code: -32700, Message: fmt.Sprintf("parse error: %v", err)},
				}
				encoder.Encode(resp)
				continue
			}

			resp := handleMCPRequest(req)
			// Notifications (no ID) don't get a response
			if resp.JSONRPC == "" {
				continue
			}
			encoder.Encode(resp)
		}

		return scanner.Err()
	},
}
