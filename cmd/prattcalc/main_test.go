package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args   []string
		status int
		stdout string
	}{
		{args: []string{"2 + 3 * 4"}, stdout: "14\n"},
		{args: []string{"(2", "+", "3)", "*", "4"}, stdout: "20\n"},
		{args: []string{"--", "-7 / 2"}, stdout: "-3\n"},
		{args: []string{"--sexpr", "1 + 2 * 3 - 4"}, stdout: "(- (+ 1 (* 2 3)) 4)\n3\n"},
		{
			args:   []string{"--tokens", "1+2"},
			stdout: "NUMBER `1` (0, 1)\nOPERATOR `+` (1, 2)\nNUMBER `2` (2, 3)\nEOI `` (3, 3)\n3\n",
		},
		{args: []string{}, status: 1},
		{args: []string{"-f", "suite.yaml", "1"}, status: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			status := run(tt.args, &stdout, &stderr)
			if status != tt.status {
				t.Errorf("expect to exit with %d but got %d: %s", tt.status, status, stderr.String())
			}
			if tt.status == 0 {
				if diff := cmp.Diff(tt.stdout, stdout.String()); diff != "" {
					t.Errorf("stdout mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestRunJSON(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if status := run([]string{"--json", "(1 + 2) * 3"}, &stdout, &stderr); status != 0 {
		t.Fatalf("unexpected exit status %d: %s", status, stderr.String())
	}

	var ret struct {
		Tokens []map[string]any `json:"tokens"`
		Tree   string           `json:"tree"`
		Result int64            `json:"result"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &ret); err != nil {
		t.Fatal(err)
	}
	if ret.Tree != "(* (+ 1 2) 3)" || ret.Result != 9 || len(ret.Tokens) != 8 {
		t.Errorf("unexpected result: %+v", ret)
	}
}

func TestRunTree(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if status := run([]string{"--tree", "1 + 2"}, &stdout, &stderr); status != 0 {
		t.Fatalf("unexpected exit status %d: %s", status, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "root\n") || !strings.HasSuffix(stdout.String(), "\n3\n") {
		t.Errorf("unexpected output: %s", stdout.String())
	}
}

func TestRunEmitLLVM(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if status := run([]string{"--emit-llvm", "6 / 3"}, &stdout, &stderr); status != 0 {
		t.Fatalf("unexpected exit status %d: %s", status, stderr.String())
	}
	if !strings.Contains(stdout.String(), "define i32 @main()") {
		t.Errorf("unexpected output: %s", stdout.String())
	}
}

func TestRunException(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		tags   []any
	}{
		{"1 / 0", []any{"EvalError", "ZeroDivisionError"}},
		{"2 $ 3", []any{"LexError", "UnrecognizedCharacter"}},
		{"(2 + 3", []any{"ParseError", "UnexpectedToken"}},
		{"1 2", []any{"ParseError", "UnconsumedInput"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			if status := run([]string{tt.source}, &stdout, &stderr); status != 1 {
				t.Errorf("expect to exit with 1 but got %d", status)
			}
			if stdout.Len() != 0 {
				t.Errorf("unexpected stdout: %s", stdout.String())
			}

			message, payload, ok := strings.Cut(stderr.String(), "\n")
			if !ok {
				t.Fatalf("unexpected stderr: %s", stderr.String())
			}
			t.Logf("expected error: %s", message)

			var exception map[string]any
			if err := json.Unmarshal([]byte(payload), &exception); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.tags, exception["tags"]); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunSuite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	passing := filepath.Join(dir, "passing.yaml")
	if err := os.WriteFile(passing, []byte("cases:\n  - expression: \"2 * 21\"\n    expect: 42\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	failing := filepath.Join(dir, "failing.json")
	if err := os.WriteFile(failing, []byte(`{"cases":[{"expression":"1 / 0","expect":0}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if status := run([]string{"-f", passing, "-j", "1"}, &stdout, &stderr); status != 0 {
		t.Errorf("expect to pass but got %d: %s", status, stdout.String())
	}

	stdout.Reset()
	if status := run([]string{"--file", failing}, &stdout, &stderr); status != 1 {
		t.Errorf("expect to fail but got %d: %s", status, stdout.String())
	}
	var results []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0]["passed"] != false {
		t.Errorf("unexpected results: %v", results)
	}

	if status := run([]string{"-f", filepath.Join(dir, "missing.yaml")}, &stdout, &stderr); status != 1 {
		t.Errorf("expect to fail to load but got %d", status)
	}
}
