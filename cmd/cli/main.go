package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/client/cli"
	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/config"
	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/session"
	"github.com/dmitrijs2005/useradmin/internal/client/roster"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/filex"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// stdout belongs to the console
	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	dir, err := filex.EnsureDir(cfg.SessionDir)
	if err != nil {
		log.Fatalf("session dir: %v", err)
	}
	dsn, err := filex.SessionPath(dir, cfg.SessionDB)
	if err != nil {
		log.Fatalf("session db: %v", err)
	}

	db, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	apiClient, err := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	validator, err := form.NewValidator()
	if err != nil {
		log.Fatalf("%v", err)
	}

	mode, err := services.ParseMode(cfg.MutationMode)
	if err != nil {
		log.Fatalf("%v", err)
	}

	as := services.NewAuthService(apiClient, session.NewSQLiteRepository(db), logger)
	ds := services.NewDirectoryService(apiClient, roster.NewStore(), validator, mode, logger)

	app, err := cli.NewApp(as, ds, validator, cfg.PageSize, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
