package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.c")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp source: %v", err)
	}
	return path
}

func TestDumpTokens(t *testing.T) {
	path := writeTempSource(t, "int x;")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dump-tokens", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), `"int"`) || !strings.Contains(out.String(), `"x"`) {
		t.Errorf("expected token dump to mention int/x, got:\n%s", out.String())
	}
}

func TestDumpAST(t *testing.T) {
	path := writeTempSource(t, "int add(int a, int b) { return a + b; }")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dump-ast", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "int add(int a, int b)") {
		t.Errorf("expected AST dump to contain function header, got:\n%s", out.String())
	}
}

func TestEmitGo(t *testing.T) {
	path := writeTempSource(t, "struct GLFWwindow;\ntypedef struct GLFWwindow* GLFWwindowPtr;")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--emit-go", "--package", "glfw", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "package glfw") {
		t.Errorf("expected emitted Go source to declare package glfw, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "type GLFWwindowPtr = *GLFWwindow") {
		t.Errorf("expected emitted alias, got:\n%s", out.String())
	}
}

func TestDefineFlagSeedsMacroEnvironment(t *testing.T) {
	path := writeTempSource(t, "int x = SCALE;")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dump-ast", "-D", "SCALE=4", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "int x = 4;") {
		t.Errorf("expected -D SCALE=4 to expand in AST dump, got:\n%s", out.String())
	}
}

func TestInterpretFlagIsNotYetImplemented(t *testing.T) {
	path := writeTempSource(t, "int x;")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--interpret", path})
	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected --interpret to report not-yet-implemented")
	}
	if !strings.Contains(errOut.String(), "not yet implemented") {
		t.Errorf("expected warning about --interpret, got stderr:\n%s", errOut.String())
	}
}

func TestParseErrorIsReportedWithPosition(t *testing.T) {
	path := writeTempSource(t, "Widget w;")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected parse error for unknown type Widget")
	}
	if !strings.Contains(errOut.String(), "1:1") {
		t.Errorf("expected error position 1:1, got stderr:\n%s", errOut.String())
	}
}
