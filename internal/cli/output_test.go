package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		base, format, want string
	}{
		{"out/tree", "svg", "out/tree.svg"},
		{"out/tree", "png", "out/tree.png"},
		{"out/tree", "dot", "out/tree.dot"},
		{"out/tree", "json", "out/tree.scene.json"},
	}
	for _, tt := range tests {
		if got := artifactPath(tt.base, tt.format); got != tt.want {
			t.Errorf("artifactPath(%q, %q) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name, output, def, want string
	}{
		{"empty uses default", "", "hierarchy", "hierarchy"},
		{"strips format extension", "out/tree.svg", "hierarchy", "out/tree"},
		{"strips scene suffix", "out/tree.scene.json", "hierarchy", "out/tree"},
		{"keeps unknown extension", "out/tree.v2", "hierarchy", "out/tree.v2"},
		{"plain base", "out/tree", "hierarchy", "out/tree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.def); got != tt.want {
				t.Errorf("outputBase(%q, %q) = %q, want %q", tt.output, tt.def, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   []string{"svg", "json"},
		base:      filepath.Join(dir, "hierarchy"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "hierarchy.svg"), filepath.Join(dir, "hierarchy.scene.json")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
		if _, err := os.Stat(want[i]); err != nil {
			t.Errorf("%s not written: %v", want[i], err)
		}
	}
}

func TestWriteArtifactsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "picture.svg")

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg"},
		output:    target,
		base:      filepath.Join(dir, "hierarchy"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != target {
		t.Errorf("paths = %v, want [%s]", paths, target)
	}
}

func TestWriteArtifactsStdoutNeedsOneFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "png": nil},
		formats:   []string{"svg", "png"},
		output:    stdoutPath,
	})
	if err == nil {
		t.Error("expected error for stdout with two formats")
	}
}
