package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCase = `{
  "auth": {"auth_id": "A-1", "card": "tok", "amount": 100.0, "currency": "USD", "merchant_id": "M-1", "auth_time": "2025-01-01T00:00:00Z"},
  "state": {"captured_amount": 40.0},
  "reversal_request": {"request_id": "R-1", "type": "partial", "request_time": "2025-01-01T00:10:00Z", "reason": "dup"}
}`

func writeSampleRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("expiry_minutes_default: 60\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestRunUsage(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Monetic CLI") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestCaseCommand(t *testing.T) {
	rulesPath := writeSampleRules(t)
	casePath := filepath.Join(t.TempDir(), "case.json")
	if err := os.WriteFile(casePath, []byte(sampleCase), 0o600); err != nil {
		t.Fatalf("write case: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "case", "--rules", rulesPath, casePath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Reversal eligible (partial).") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "notify: skipped (no webhook url)") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestCaseCommandJSONOutput(t *testing.T) {
	rulesPath := writeSampleRules(t)
	casePath := filepath.Join(t.TempDir(), "case.json")
	if err := os.WriteFile(casePath, []byte(sampleCase), 0o600); err != nil {
		t.Fatalf("write case: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "case", "--rules", rulesPath, "--json", casePath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"reversible_amount": 60`) {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestCaseCommandMissingFile(t *testing.T) {
	rulesPath := writeSampleRules(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "case", "--rules", rulesPath, "missing.json"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
}

func TestCaseCommandWritesAuditDB(t *testing.T) {
	rulesPath := writeSampleRules(t)
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	casePath := filepath.Join(t.TempDir(), "case.json")
	if err := os.WriteFile(casePath, []byte(sampleCase), 0o600); err != nil {
		t.Fatalf("write case: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "case", "--rules", rulesPath, "--db", dbPath, casePath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr.String())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected audit db: %v", err)
	}
}

func TestBatchCommand(t *testing.T) {
	rulesPath := writeSampleRules(t)
	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, "a.json"), []byte(sampleCase), 0o600); err != nil {
		t.Fatalf("write case: %v", err)
	}
	if err := os.WriteFile(filepath.Join(folder, "b.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write case: %v", err)
	}
	outDir := t.TempDir()

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "batch", "--rules", rulesPath, "--out", outDir, folder}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Processed 2 cases.") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "error: b.json:") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one export file, got %v (%v)", entries, err)
	}
}

func TestBatchCommandEmptyFolder(t *testing.T) {
	rulesPath := writeSampleRules(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "batch", "--rules", rulesPath, t.TempDir()}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no case files") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestRulesLint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := "expiry_minutes_default: 45\nallowed_reversal_types: [full, partial]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "rules", "lint", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "ok expiry_minutes_default=45 allowed_types=2") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestRulesLintMissingArg(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "rules", "lint"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected code 2, got %d", code)
	}
}

func TestRulesUnknownSubcommand(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "rules", "unknown"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected code 2, got %d", code)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := run([]string{"monetic", "unknown"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected code 2, got %d", code)
	}
}

func TestEnvOrDefault(t *testing.T) {
	os.Setenv("MONETIC_TEST_ENV", "value")
	defer os.Unsetenv("MONETIC_TEST_ENV")

	if got := envOrDefault("MONETIC_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}
	if got := envOrDefault("MONETIC_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestMainExitCode(t *testing.T) {
	oldExit := exitFn
	oldArgs := os.Args
	defer func() {
		exitFn = oldExit
		os.Args = oldArgs
	}()

	var code int
	exitFn = func(c int) {
		code = c
	}
	os.Args = []string{"monetic"}

	main()

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
