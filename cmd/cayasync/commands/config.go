package commands

import (
	"context"

	"cayasync/lib/browser"
	"cayasync/lib/configutil"
	"cayasync/lib/osutil"
	"cayasync/lib/scrapers/caya"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	LoginUrl string `json:"login_url"`
	// directory downloads are written to
	SaveDir string `json:"save_dir"`
	// json array of already-downloaded document ids
	LedgerFile string `json:"ledger_file"`
	// sqlite file holding downloaded document metadata
	IndexFile string `json:"index_file"`
	// graphql endpoint override, for testing against a fake portal
	Endpoint string `json:"endpoint"`
	// inbox (default), archive or trash
	Folder   string `json:"folder"`
	PageSize int    `json:"page_size"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		osutil.Fatal("failed to read config.json5", err)
	}

	if cfg.LoginUrl == "" {
		cfg.LoginUrl = "https://app.caya.com/login"
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = "."
	}
	if cfg.LedgerFile == "" {
		cfg.LedgerFile = "downloaded_files.json"
	}
	if cfg.IndexFile == "" {
		cfg.IndexFile = "cayasync.db"
	}
	return cfg
}

// establishSession runs the browser login flow and hands back the
// captured credentials. The browser is closed before returning, it is
// only needed to mint the AuthContext.
func establishSession(ctx context.Context, cfg Config) caya.AuthContext {
	sess, err := browser.NewChromeSession(ctx, browser.ChromeOptions{
		Headful: debug,
	})
	if err != nil {
		osutil.Fatal("failed to start browser", err)
	}
	defer sess.Close()

	auth, err := caya.Login(ctx, sess, caya.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		LoginUrl: cfg.LoginUrl,
	}, caya.LoginOptions{})
	if err != nil {
		sess.Close()
		osutil.Fatal("failed to login", err)
	}
	return auth
}
