package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/armory-tools/amr/internal/adapter/credfile"
	"github.com/armory-tools/amr/internal/adapter/sqlite"
	"github.com/armory-tools/amr/internal/adapter/terminal"
	"github.com/armory-tools/amr/internal/armory"
	"github.com/armory-tools/amr/internal/config"
	"github.com/armory-tools/amr/internal/domain"
	"github.com/armory-tools/amr/internal/logger"
	"github.com/armory-tools/amr/internal/port"
	"github.com/armory-tools/amr/internal/service/transfer"
)

const version = "1.0.0"

func main() {
	output := pflag.StringP("output", "o", "", "Output file name")
	destDir := pflag.String("dir", "", "Destination directory (default: current directory)")
	configPath := pflag.String("config", "", "Path to settings file (default: ~/.amr/settings.yaml)")
	showHistory := pflag.Bool("history", false, "List recent transfers and exit")
	showVersion := pflag.Bool("version", false, "Print version and exit")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Downloads files from Armory repositories\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <url>\n\nFlags:\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *showVersion {
		fmt.Println("amr", version)
		return
	}

	if err := run(*configPath, *output, *destDir, *showHistory); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, output, destDir string, showHistory bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	history, histStore := openHistory(cfg, log)
	if histStore != nil {
		defer histStore.Close()
	}

	if showHistory {
		return printHistory(histStore)
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		return fmt.Errorf("exactly one download URL is required")
	}
	srcURL := pflag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := authenticate(ctx, cfg, log, srcURL)
	if err != nil {
		return err
	}

	if destDir == "" {
		destDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve current directory: %w", err)
		}
	}

	// No whole-request timeout here: a large transfer legitimately
	// outlives any fixed deadline. The header timeout still bounds an
	// unresponsive server.
	client := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: cfg.HTTP.GetTimeout(),
		},
	}

	downloader := transfer.New(transfer.Config{
		BufferSize: cfg.Transfer.GetBufferSize(),
		PartSuffix: cfg.Transfer.PartSuffix,
	}, client, afero.NewOsFs(), terminal.NewBarReporter(), history, log)

	filename, err := downloader.Download(ctx, token, srcURL, destDir, output)
	if err != nil {
		return err
	}

	log.Debug("saved file",
		zap.String("filename", filename),
		zap.String("dir", destDir))
	return nil
}

// authenticate resolves the repository base URL and exchanges stored
// (or freshly prompted) credentials for an access token. Non-armory
// URLs download anonymously with an empty token.
func authenticate(ctx context.Context, cfg *config.Config, log *zap.Logger, srcURL string) (string, error) {
	baseURL, err := armory.BaseURL(srcURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotArmoryURL) {
			log.Warn("not an armory URL, downloading without authentication",
				zap.String("url", srcURL))
			return "", nil
		}
		return "", err
	}

	credPath, err := credfile.DefaultPath()
	if err != nil {
		return "", err
	}
	store := credfile.NewStore(afero.NewOsFs(), credPath)

	cred, err := store.Load(baseURL)
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			return "", err
		}

		// Recover locally: prompt, persist, then retry the login once
		// with the fresh credentials.
		prompter := terminal.NewPrompter(os.Stdin, os.Stderr)
		cred, err = prompter.Prompt(baseURL)
		if err != nil {
			return "", err
		}
		if err := store.Save(cred); err != nil {
			return "", err
		}
		log.Info("credentials saved", zap.String("path", credPath))
	}

	client := armory.NewClient(baseURL, cfg.HTTP.GetTimeout(), log)
	token, err := client.Login(ctx, cred.Username, cred.Password)
	if err != nil {
		return "", fmt.Errorf("failed to get token (check your credentials and try again): %w", err)
	}

	return token, nil
}

// openHistory opens the transfer history store. History is advisory:
// any failure degrades to a nop log with a warning.
func openHistory(cfg *config.Config, log *zap.Logger) (port.TransferLog, *sqlite.Store) {
	if cfg.History.Disabled {
		return port.NopTransferLog{}, nil
	}

	path, err := cfg.History.GetPath()
	if err != nil {
		log.Warn("transfer history disabled", zap.Error(err))
		return port.NopTransferLog{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Warn("transfer history disabled", zap.Error(err))
		return port.NopTransferLog{}, nil
	}

	store, err := sqlite.Open(path)
	if err != nil {
		log.Warn("transfer history disabled", zap.Error(err))
		return port.NopTransferLog{}, nil
	}

	return store, store
}

func printHistory(store *sqlite.Store) error {
	if store == nil {
		return fmt.Errorf("transfer history is not available")
	}

	transfers, err := store.Recent(20)
	if err != nil {
		return fmt.Errorf("failed to read transfer history: %w", err)
	}

	for _, t := range transfers {
		fmt.Printf("%s  %-11s  %10d/%d bytes  %s\n",
			t.StartedAt.Format("2006-01-02 15:04:05"),
			t.Status, t.BytesDownloaded, t.TotalSize, t.SourceURL)
	}
	return nil
}
