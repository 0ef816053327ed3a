package suite

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Load reads a suite file, picking the format from its extension.
func Load(filePath string) (*Suite, error) {
	var parseSuite func(io.Reader) (*Suite, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseSuite = ParseSuiteJSON
	case ".yaml", ".yml":
		parseSuite = ParseSuiteYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	s, err := parseSuite(f)
	if err != nil {
		return nil, fmt.Errorf("suite.Parse: %w", err)
	}
	return s, nil
}

func ParseSuiteYAML(r io.Reader) (*Suite, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseSuiteJSON(bytes.NewReader(jsonBytes))
}

func ParseSuiteJSON(r io.Reader) (*Suite, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return compileSuite(raw)
}
