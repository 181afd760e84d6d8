package commands

import (
	"database/sql"
	"log/slog"
	"os"

	"cayasync/lib/osutil"
	"cayasync/lib/restyutil"
	"cayasync/lib/scrapers/caya"
	docsync "cayasync/services/sync"
	syncdb "cayasync/services/sync/db"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Logs into the portal and downloads every document not yet fetched.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		ctx := cmd.Context()

		auth := establishSession(ctx, cfg)

		if debug {
			caya.SetRestyDumpOutput(restyutil.NewFilesystemOutput(".dev/resty/caya"))
		}
		client, err := caya.NewClient(caya.ClientOptions{Endpoint: cfg.Endpoint})
		if err != nil {
			osutil.Fatal("failed to initialize api client", err)
		}

		err = os.MkdirAll(cfg.SaveDir, 0755)
		if err != nil {
			osutil.Fatal("failed to create save directory", err)
		}

		sqlite, err := sql.Open("sqlite", cfg.IndexFile)
		if err != nil {
			osutil.Fatal("failed to open metadata index", err)
		}
		defer sqlite.Close()
		_, err = sqlite.Exec(syncdb.Schema)
		if err != nil {
			osutil.Fatal("failed to initialize metadata index", err)
		}

		service := docsync.NewService(docsync.Options{
			Client:   client,
			Ledger:   docsync.OpenLedger(cfg.LedgerFile),
			Fetcher:  docsync.NewFetcher(cfg.SaveDir),
			Index:    syncdb.New(sqlite),
			Folder:   cfg.Folder,
			PageSize: cfg.PageSize,
		})

		report, err := service.Run(ctx, auth)
		if err != nil {
			osutil.Fatal("sync failed", err)
		}

		slog.Info(
			"sync complete",
			"listed", report.Listed,
			"downloaded", report.Downloaded,
			"skipped_duplicate", report.SkippedDuplicate,
			"skipped_no_url", report.SkippedNoUrl,
			"failed", report.Failed,
		)
	},
}
