package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidahmann/monetic/internal/api"
	"github.com/davidahmann/monetic/internal/config"
	"github.com/davidahmann/monetic/internal/ledger"
	"github.com/davidahmann/monetic/internal/ledger/pgstore"
	"github.com/davidahmann/monetic/internal/ledger/sqlstore"
	"github.com/davidahmann/monetic/internal/pipeline"
	"github.com/davidahmann/monetic/internal/rules"
	"github.com/davidahmann/monetic/internal/webhook"
)

func main() {
	_ = godotenv.Load()
	if err := runFn(os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run
var fatalf = log.Fatalf

func newServer(addr string, cfg config.Config) *http.Server {
	store, err := openStore(cfg.DB)
	if err != nil {
		log.Fatalf("audit store error: %v", err)
	}

	h := &api.Handler{
		Pipeline: pipeline.New(
			rules.NewResolver(cfg.Rules.DefaultPath, cfg.Rules.OverrideDir),
			store,
			webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout()),
		),
		ExportDir: cfg.Batch.ExportDir,
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func openStore(db config.DBConfig) (ledger.Store, error) {
	switch db.Driver {
	case "sqlite":
		return sqlstore.OpenSQLite(db.DSN)
	case "postgres":
		return pgstore.OpenPostgres(db.DSN)
	default:
		return ledger.NewInMemoryStore(), nil
	}
}

type envFn func(string) string
type listenFn func(*http.Server) error
type serverFactory func(addr string, cfg config.Config) *http.Server

func run(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("monetic-gateway", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to monetic config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = getenv("MONETIC_CONFIG_PATH")
	}

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	addr := firstNonEmpty(getenv("MONETIC_LISTEN_ADDR"), cfg.ListenAddr, ":8080")

	cfg.Rules.DefaultPath = firstNonEmpty(getenv("MONETIC_RULES_PATH"), cfg.Rules.DefaultPath, "rules/default.yaml")
	cfg.Rules.OverrideDir = firstNonEmpty(getenv("MONETIC_RULES_OVERRIDE_DIR"), cfg.Rules.OverrideDir, "")
	cfg.Webhook.URL = firstNonEmpty(getenv("MONETIC_WEBHOOK_URL"), cfg.Webhook.URL, "")

	server := factory(addr, cfg)

	log.Printf("monetic-gateway listening on %s", addr)
	if err := listen(server); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func listenAndServe(server *http.Server) error {
	return server.ListenAndServe()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
