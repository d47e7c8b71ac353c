package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidahmann/monetic/internal/batch"
	"github.com/davidahmann/monetic/internal/ledger"
	"github.com/davidahmann/monetic/internal/ledger/sqlstore"
	"github.com/davidahmann/monetic/internal/pipeline"
	"github.com/davidahmann/monetic/internal/report"
	"github.com/davidahmann/monetic/internal/rules"
	"github.com/davidahmann/monetic/internal/webhook"
)

const defaultRulesPath = "rules/default.yaml"

func main() {
	_ = godotenv.Load()
	exitFn(run(os.Args, os.Stdout, os.Stderr))
}

var exitFn = os.Exit

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "case":
		return handleCase(args[2:], stdout, stderr)
	case "batch":
		return handleBatch(args[2:], stdout, stderr)
	case "rules":
		return handleRules(args[2:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

type pipelineFlags struct {
	rulesPath   string
	overrideDir string
	dbPath      string
	webhookURL  string
}

func registerPipelineFlags(fs *flag.FlagSet) *pipelineFlags {
	pf := &pipelineFlags{}
	fs.StringVar(&pf.rulesPath, "rules", envOrDefault("MONETIC_RULES_PATH", defaultRulesPath), "default rules file")
	fs.StringVar(&pf.overrideDir, "overrides", os.Getenv("MONETIC_RULES_OVERRIDE_DIR"), "merchant override dir")
	fs.StringVar(&pf.dbPath, "db", os.Getenv("MONETIC_DB_PATH"), "sqlite audit db path (empty keeps audit in memory)")
	fs.StringVar(&pf.webhookURL, "webhook", os.Getenv("MONETIC_WEBHOOK_URL"), "merchant webhook url")
	return pf
}

func (pf *pipelineFlags) build(stderr io.Writer) (*pipeline.Pipeline, func(), bool) {
	var store ledger.Store = ledger.NewInMemoryStore()
	if pf.dbPath != "" {
		opened, err := sqlstore.OpenSQLite(pf.dbPath)
		if err != nil {
			fmt.Fprintln(stderr, "open audit db:", err)
			return nil, nil, false
		}
		store = opened
	}

	p := pipeline.New(
		rules.NewResolver(pf.rulesPath, pf.overrideDir),
		store,
		webhook.NewNotifier(pf.webhookURL, 5*time.Second),
	)
	cleanup := func() { _ = store.Close() }
	return p, cleanup, true
}

func handleCase(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("case", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pf := registerPipelineFlags(fs)
	jsonOut := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "case requires <case_file>")
		fs.Usage()
		return 2
	}

	p, cleanup, ok := pf.build(stderr)
	if !ok {
		return 1
	}
	defer cleanup()

	result, err := p.RunCase(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return 0
	}

	fmt.Fprintln(stdout, report.Decision(result.Decision))
	for _, op := range result.Ops {
		fmt.Fprintf(stdout, "  %s\n", op.Op)
	}
	fmt.Fprintf(stdout, "notify: %s\n", result.NotifyStatus)
	return 0
}

func handleBatch(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pf := registerPipelineFlags(fs)
	outDir := fs.String("out", "", "export dir for the batch csv")
	jsonOut := fs.Bool("json", false, "print the full summary as JSON")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "batch requires <case_folder>")
		fs.Usage()
		return 2
	}

	p, cleanup, ok := pf.build(stderr)
	if !ok {
		return 1
	}
	defer cleanup()

	summary, err := batch.NewReconciler(p, *outDir).Run(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
		return 0
	}

	fmt.Fprintln(stdout, report.Batch(summary))
	for _, entry := range summary.Errors {
		fmt.Fprintf(stdout, "  error: %s\n", entry)
	}
	return 0
}

func handleRules(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "lint":
		fs := flag.NewFlagSet("rules lint", flag.ContinueOnError)
		fs.SetOutput(stderr)
		if err := fs.Parse(args[1:]); err != nil {
			fs.Usage()
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "rules lint requires <rules_path>")
			fs.Usage()
			return 2
		}
		path := fs.Arg(0)
		ruleset, err := rules.Lint(path)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		fmt.Fprintf(stdout, "ok expiry_minutes_default=%d allowed_types=%d\n",
			ruleset.ExpiryMinutes(), len(ruleset.AllowedReversalTypes))
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Monetic CLI

Usage:
  monetic case <case_file> [--rules PATH] [--overrides DIR] [--db PATH] [--webhook URL] [--json]
  monetic batch <case_folder> [--out DIR] [--rules PATH] [--overrides DIR] [--db PATH] [--webhook URL] [--json]
  monetic rules lint <rules_path>
`)
}
