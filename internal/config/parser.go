package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/audiojones/opscheck/internal/hclfunc"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ParseFile parses an HCL configuration file
func ParseFile(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", absPath)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(absPath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	return decode(file)
}

// ParseBytes parses HCL configuration from a byte slice
func ParseBytes(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	return decode(file)
}

// decode runs two passes: the first only collects variable blocks (var.X
// references are unresolved and their diagnostics ignored), the second
// decodes everything with the resolved variables in scope.
func decode(file *hcl.File) (*Config, error) {
	var partial Config
	_ = gohcl.DecodeBody(file.Body, hclfunc.NewEvalContext(nil), &partial)

	vars := resolveVariables(partial.Variables)

	var cfg Config
	diags := gohcl.DecodeBody(file.Body, hclfunc.NewEvalContext(vars), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode configuration: %s", diags.Error())
	}

	cfg.normalize()
	return &cfg, nil
}

// resolveVariables resolves variable values from the environment, falling back to defaults
func resolveVariables(variables []*VariableConfig) map[string]string {
	resolved := make(map[string]string)

	for _, v := range variables {
		if v == nil {
			continue
		}

		var value string
		for _, envName := range v.Env {
			if envVal := os.Getenv(envName); envVal != "" {
				value = envVal
				break
			}
		}
		if value == "" {
			value = v.Default
		}

		resolved[v.Name] = value
	}

	return resolved
}
