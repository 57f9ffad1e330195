// Package mcp provides an MCP (Model Context Protocol) server for monsterid.
// This lets AI agents identify encounters and browse the catalog through
// MCP tools instead of CLI commands.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bassjack1/monsterid/internal/analysis"
	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/bassjack1/monsterid/internal/identify"
	"github.com/bassjack1/monsterid/internal/query"
	"github.com/bassjack1/monsterid/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server wraps the MCP server with monsterid-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	catalog      *catalog.Catalog
	graph        *graph.Graph
	members      graph.Members
	parser       *query.Parser
	split        bool
	logger       *zap.Logger
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools            []string      // Which tools to expose (empty = all)
	Timeout          time.Duration // Inactivity timeout (0 = no timeout)
	DefaultPartySize int           // Party size when a query has no "c" term
	SplitGroups      bool          // Default for the split argument of monster_identify
	Version          string
}

// AllTools lists all available tools
var AllTools = []string{"monster_identify", "monster_codes", "monster_groups", "monster_check"}

// DefaultTools is the default set of tools to expose
var DefaultTools = AllTools

// New creates a new MCP server over an already loaded catalog.
func New(cfg Config, cat *catalog.Catalog, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	g, members := graph.Build(cat, logger)

	mcpServer := server.NewMCPServer(
		"monsterid",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		catalog:      cat,
		graph:        g,
		members:      members,
		parser:       query.NewParser(cat, cfg.DefaultPartySize),
		split:        cfg.SplitGroups,
		logger:       logger,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "monster_identify":
		return s.registerIdentifyTool()
	case "monster_codes":
		return s.registerCodesTool()
	case "monster_groups":
		return s.registerGroupsTool()
	case "monster_check":
		return s.registerCheckTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	s.logger.Info("mcp server listening on stdio", zap.Strings("tools", s.ListTools()))
	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.logger.Info("mcp server idle timeout", zap.Duration("timeout", s.timeout))
			s.logger.Sync()
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tools in sorted order
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"monster_identify": {
		Name:        "monster_identify",
		Description: "Infer which monsters were killed from group counts and experience per survivor, e.g. '5pri1mil1176x6c'.",
		Parameters: []ParameterSchema{
			{Name: "query", Type: "string", Description: "Encounter terms <count><code>; 'x' is experience per survivor, 'c' is survivors (default 6)", Required: true},
			{Name: "split", Type: "boolean", Description: "Allow one group's kills to be divided among several of its monsters"},
		},
	},
	"monster_codes": {
		Name:        "monster_codes",
		Description: "List every unidentified group code and monster code with in-game names.",
		Parameters:  []ParameterSchema{},
	},
	"monster_groups": {
		Name:        "monster_groups",
		Description: "Show the monsters of each unidentified group and the groups that can occur more than once in one encounter.",
		Parameters:  []ParameterSchema{},
	},
	"monster_check": {
		Name:        "monster_check",
		Description: "Summarize catalog health: counts, empty groups, monsters with unknown groups, companion cycles.",
		Parameters:  []ParameterSchema{},
	},
}

// GetToolSchemas returns schemas for all registered tools, sorted by name.
func (s *Server) GetToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(s.tools))
	for _, name := range s.ListTools() {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	switch name {
	case "monster_identify":
		q, _ := args["query"].(string)
		if q == "" {
			return "", fmt.Errorf("query parameter is required")
		}
		split := s.split
		if v, ok := args["split"].(bool); ok {
			split = v
		}
		return s.executeIdentify(q, split)

	case "monster_codes":
		return toJSON(report.NewCodesOutput(s.catalog))

	case "monster_groups":
		return toJSON(analysis.Groups(s.catalog, s.members, s.graph))

	case "monster_check":
		return toJSON(report.NewCheckOutput(s.catalog, s.members, s.graph))

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// registerIdentifyTool registers the monster_identify tool
func (s *Server) registerIdentifyTool() error {
	tool := mcp.NewTool("monster_identify",
		mcp.WithDescription(toolSchemaRegistry["monster_identify"].Description),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Encounter terms <count><code>; 'x' is experience per survivor, 'c' is survivors (default 6)"),
		),
		mcp.WithBoolean("split",
			mcp.Description("Allow one group's kills to be divided among several of its monsters"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleIdentify)
	return nil
}

// registerCodesTool registers the monster_codes tool
func (s *Server) registerCodesTool() error {
	tool := mcp.NewTool("monster_codes",
		mcp.WithDescription(toolSchemaRegistry["monster_codes"].Description),
	)

	s.mcpServer.AddTool(tool, s.handleNoArgs("monster_codes"))
	return nil
}

// registerGroupsTool registers the monster_groups tool
func (s *Server) registerGroupsTool() error {
	tool := mcp.NewTool("monster_groups",
		mcp.WithDescription(toolSchemaRegistry["monster_groups"].Description),
	)

	s.mcpServer.AddTool(tool, s.handleNoArgs("monster_groups"))
	return nil
}

// registerCheckTool registers the monster_check tool
func (s *Server) registerCheckTool() error {
	tool := mcp.NewTool("monster_check",
		mcp.WithDescription(toolSchemaRegistry["monster_check"].Description),
	)

	s.mcpServer.AddTool(tool, s.handleNoArgs("monster_check"))
	return nil
}

func (s *Server) handleIdentify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	q, ok := args["query"].(string)
	if !ok || q == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	split := s.split
	if v, ok := args["split"].(bool); ok {
		split = v
	}

	result, err := s.executeIdentify(q, split)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleNoArgs(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(name, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

// executeIdentify parses and identifies one encounter. Input errors carry
// the expected grammar and every valid code so an agent can correct the
// query.
func (s *Server) executeIdentify(q string, split bool) (string, error) {
	obs, err := s.parser.Parse(query.JoinArgs([]string{q}))
	if err != nil {
		return "", s.inputError(err)
	}

	engine := identify.New(s.catalog, s.members,
		identify.WithLogger(s.logger),
		identify.WithSplitGroups(split))
	outcome, err := engine.Identify(obs)
	if err != nil {
		if errors.Is(err, identify.ErrUnknownKey) || errors.Is(err, identify.ErrExperienceRange) {
			return "", s.inputError(err)
		}
		return "", err
	}

	s.logger.Debug("mcp identify",
		zap.String("query", q),
		zap.Stringer("status", outcome.Status),
		zap.Int("assignments", len(outcome.Assignments)))

	out := report.NewIdentifyOutput(s.catalog, outcome)
	out.Split = split
	return toJSON(out)
}

// inputError appends the same grammar and code listing the CLI prints.
func (s *Server) inputError(err error) error {
	var buf bytes.Buffer
	report.ExpectedInput(&buf, s.catalog)
	return fmt.Errorf("%w\n%s", err, strings.TrimRight(buf.String(), "\n"))
}

// Helper functions

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
