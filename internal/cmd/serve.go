package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bassjack1/monsterid/internal/config"
	"github.com/bassjack1/monsterid/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server for AI agent integration.

This lets AI agents identify encounters and browse the catalog through MCP
tools instead of spawning CLI commands. The catalog is loaded once when the
server starts.

Available Tools:
  monster_identify   Infer monsters from an encounter query
  monster_codes      List group and monster codes
  monster_groups     Group members and multi-occurring groups
  monster_check      Catalog health summary`,
	Example: `  monsterid serve --mcp                       # Start with all tools
  monsterid serve --mcp --tools identify,codes  # Start with specific tools only
  monsterid serve --mcp --timeout 30m           # Auto-stop after 30 minutes idle
  monsterid serve --status                      # Check if server is running
  monsterid serve --stop                        # Stop running server
  monsterid serve --list-tools                  # Show available tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  monster_identify   Infer monsters from an encounter query")
		fmt.Fprintln(out, "  monster_codes      List group and monster codes")
		fmt.Fprintln(out, "  monster_groups     Group members and multi-occurring groups")
		fmt.Fprintln(out, "  monster_check      Catalog health summary")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Default set: all")
		return nil
	}

	if serveStatus {
		return checkServerStatus(out)
	}

	if serveStop {
		return stopServer(out)
	}

	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	server, err := mcp.New(mcp.Config{
		Tools:            parseToolList(serveTools),
		Timeout:          timeout,
		DefaultPartySize: cfg.Query.DefaultPartySize,
		SplitGroups:      cfg.Search.SplitGroups,
		Version:          Version,
	}, cat, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := writePIDFile(); err != nil {
		logger.Warn("could not write PID file", zap.Error(err))
	}
	defer removePIDFile()

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("mcp server shutting down")
		removePIDFile()
		logger.Sync()
		os.Exit(0)
	}()

	if timeout > 0 {
		logger.Info("mcp server idle timeout set", zap.Duration("timeout", timeout))
	}

	// stdout carries the MCP protocol; logs go to stderr
	return server.ServeStdio()
}

// parseToolList splits a comma-separated tool list. Short names get the
// monster_ prefix (identify -> monster_identify).
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "monster_") {
			t = "monster_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	dir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

func checkServerStatus(w io.Writer) error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		fmt.Fprintln(w, "Status: not running (no .monsterid directory)")
		return nil
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Fprintln(w, "Status: not running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Fprintln(w, "Status: not running (invalid PID file)")
		return nil
	}

	// Check if process exists
	process, err := os.FindProcess(pid)
	if err != nil {
		fmt.Fprintln(w, "Status: not running")
		removePIDFile()
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	err = process.Signal(syscall.Signal(0))
	if err != nil {
		fmt.Fprintln(w, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(w, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(w io.Writer) error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return fmt.Errorf("no .monsterid directory found")
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Fprintln(w, "No server running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return fmt.Errorf("invalid PID file")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		fmt.Fprintln(w, "No server running")
		return nil
	}

	// Send SIGTERM for graceful shutdown
	err = process.Signal(syscall.SIGTERM)
	if err != nil {
		removePIDFile()
		fmt.Fprintln(w, "Server already stopped")
		return nil
	}

	fmt.Fprintf(w, "Stopped server (PID %d)\n", pid)
	return nil
}
