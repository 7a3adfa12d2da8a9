package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Aequivinius/lodqa/internal/assets"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// lodqaMCPEntry is the MCP server configuration for the lodqa binary.
var lodqaMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "lodqa",
  "args": ["-config", "lodqa.yaml", "serve-mcp"]
}`)

// runInit writes the default configuration and the MCP server entry into the
// target project directory.
func runInit(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := fs.String("dir", ".", "project directory")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	abs, err := filepath.Abs(*dir)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}

	cfgPath := filepath.Join(abs, "lodqa.yaml")
	if _, err := os.Stat(cfgPath); err == nil && !*force {
		fmt.Fprintf(stdout, "  skipped ./lodqa.yaml (exists, use -force to overwrite)\n")
	} else {
		if err := os.WriteFile(cfgPath, assets.ConfigTemplate, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		fmt.Fprintf(stdout, "  created ./lodqa.yaml\n")
	}

	return mergeMCPConfig(filepath.Join(abs, ".mcp.json"), *force, stdout)
}

// mergeMCPConfig creates or merges the lodqa entry into .mcp.json.
func mergeMCPConfig(mcpPath string, force bool, stdout io.Writer) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["lodqa"]; exists && !force {
		fmt.Fprintf(stdout, "  skipped .mcp.json lodqa entry (exists, use -force to overwrite)\n")
		return nil
	}

	cfg.MCPServers["lodqa"] = lodqaMCPEntry

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(stdout, "  %s .mcp.json with lodqa MCP server\n", action)
	return nil
}
