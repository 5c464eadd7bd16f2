package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is one end-to-end --dump-ast scenario: a small C source file
// and the substrings its printed AST must contain.
type ScenarioSpec struct {
	Name   string   `yaml:"name"`
	Input  string   `yaml:"input"`
	Expect []string `yaml:"expect"`
	Skip   string   `yaml:"skip,omitempty"`
}

type ScenarioFile struct {
	Tests []ScenarioSpec `yaml:"tests"`
}

// TestScenarios drives the full CLI (cobra command, file I/O, full
// pipeline) against testdata/scenarios.yaml, mirroring the teacher's
// integration_test.go's YAML-fixture-driven shape.
func TestScenarios(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Skipf("scenarios.yaml not found: %v", err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse scenarios.yaml: %v", err)
	}

	for _, tc := range file.Tests {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "input.c")
			if err := os.WriteFile(path, []byte(tc.Input), 0o644); err != nil {
				t.Fatalf("failed to write scenario input: %v", err)
			}

			var out, errOut bytes.Buffer
			cmd := newRootCmd(&out, &errOut)
			cmd.SetArgs([]string{"--dump-ast", path})
			if err := cmd.Execute(); err != nil {
				t.Fatalf("cbind --dump-ast failed: %v\nstderr: %s", err, errOut.String())
			}

			got := out.String()
			for _, want := range tc.Expect {
				if !bytes.Contains([]byte(got), []byte(want)) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
		})
	}
}
