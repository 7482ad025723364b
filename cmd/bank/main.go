package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/api-sage/account-ledger/internal/adapter/backup"
	"github.com/api-sage/account-ledger/internal/adapter/cli"
	"github.com/api-sage/account-ledger/internal/adapter/export"
	"github.com/api-sage/account-ledger/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/internal/auth"
	"github.com/api-sage/account-ledger/internal/config"
	"github.com/api-sage/account-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// one gate serializes every mutating operation, the bulk interest
	// rewrite, and backup/restore (single-writer model)
	var gate sync.Mutex

	store := flatfile.NewStore(cfg.DataFile)
	translog := flatfile.NewTransLog(cfg.TransactionFile)
	index := services.NewAccountIndex(store)

	app := cli.New(os.Stdin, os.Stdout, cli.Deps{
		Credentials: auth.NewCredentials(cfg.AdminUser, cfg.AdminPasswordHash),
		Accounts:    services.NewAccountService(&gate, store, index, translog),
		Transfers:   services.NewTransferService(&gate, store, index, translog),
		Interest:    services.NewInterestService(&gate, store, translog),
		Exporter:    export.NewExporter(&gate, store, cfg.ExportFile),
		Backup:      backup.NewCopier(&gate, cfg.DataFile, cfg.BackupFile),
	})

	if err := app.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
