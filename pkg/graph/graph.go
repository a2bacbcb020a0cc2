package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes.
// Nodes are sorted by ID for deterministic output.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a graph file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ReadGraphFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, herrors.Wrap(herrors.ErrCodeFileNotFound, err, "graph file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f, FormatFromPath(path))
}

// ReadGraph decodes a graph in the given format from an io.Reader.
func ReadGraph(r io.Reader, format string) (*dag.DAG, error) {
	return readGraphFrom(r, format)
}

// FormatFromPath returns the input format implied by a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *dag.DAG, w io.Writer) error {
	out := FromDAG(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader, format string) (*dag.DAG, error) {
	var data Graph
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInvalidFormat, err, "decode json graph")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInvalidFormat, err, "decode yaml graph")
		}
	default:
		return nil, herrors.New(herrors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return ToDAG(data)
}
