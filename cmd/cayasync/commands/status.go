package commands

import (
	"database/sql"
	"log/slog"
	"os"
	"time"

	"cayasync/lib/osutil"
	docsync "cayasync/services/sync"
	syncdb "cayasync/services/sync/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows what has been downloaded so far.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		ledger := docsync.OpenLedger(cfg.LedgerFile)

		sqlite, err := sql.Open("sqlite", cfg.IndexFile)
		if err != nil {
			osutil.Fatal("failed to open metadata index", err)
		}
		defer sqlite.Close()
		_, err = sqlite.Exec(syncdb.Schema)
		if err != nil {
			osutil.Fatal("failed to initialize metadata index", err)
		}

		docs, err := syncdb.New(sqlite).ListDocuments(cmd.Context())
		if err != nil {
			osutil.Fatal("failed to list indexed documents", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Filename", "Sender", "Subject", "Created", "Downloaded"})
		for _, d := range docs {
			t.AppendRow(table.Row{
				d.ID,
				d.Filename,
				d.SenderName,
				d.Subject,
				d.CreatedAt,
				time.Unix(d.DownloadedAt, 0).Format(time.RFC3339),
			})
		}
		t.Render()

		slog.Info("ledger summary", "downloaded", ledger.Len(), "indexed", len(docs))
	},
}
