package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/radialtree/pkg/pipeline"
)

// stdoutPath selects standard output as the destination.
const stdoutPath = "-"

// artifactPath returns the file a rendered format is written to. JSON
// output gets the scene suffix so it never overwrites the input document.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + sceneSuffix
	}
	return base + "." + format
}

// outputBase derives the base output path. If output carries a known format
// extension it is stripped; an empty output falls back to def.
func outputBase(output, def string) string {
	if output == "" {
		return def
	}
	if strings.HasSuffix(output, sceneSuffix) {
		return strings.TrimSuffix(output, sceneSuffix)
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams describes one batch of rendered outputs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string // -o flag: a file, a base path, "-" or empty
	base      string // fallback base path
}

// writeArtifacts writes every rendered format and returns the paths written.
// A single format with an explicit output goes exactly there.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == stdoutPath {
		if len(p.formats) != 1 {
			return nil, fmt.Errorf("output %q needs exactly one format, got %d", stdoutPath, len(p.formats))
		}
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(outputBase(p.output, p.base), format)
		if len(p.formats) == 1 && p.output != "" && filepath.Ext(p.output) != "" {
			path = p.output
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes data to path, or to stdout when path is "-".
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// openOutput opens path for writing. "-" and "" mean stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
