package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/db"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/importer"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/ui"
)

// Shared application wiring, built once in initApp.
var (
	appHome     string
	appLogger   *log.Logger
	appStore    *settings.Store
	appDB       *db.DB
	appClient   *api.Client
	appImporter *importer.Importer
)

var rootCmd = &cobra.Command{
	Use:   "chub-search",
	Short: "Search and import character cards from a remote catalog",
	Long: `chub-search queries a remote character-card catalog through a filtered
search, renders paginated results, and imports selected cards into a
local library.

Running without a subcommand opens the interactive browse TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRun: closeApp,
	RunE:              runBrowse,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command, args []string) error {
	appLogger = log.Default()

	appHome = settings.HomeDir()

	var err error
	appStore, err = settings.Open(appHome)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	appDB, err = db.New(filepath.Join(appHome, "library.db"))
	if err != nil {
		return fmt.Errorf("failed to open library database: %w", err)
	}

	appClient = api.NewClient(appLogger, appStore)
	appImporter = importer.New(appHome, appDB, appLogger)
	return nil
}

func closeApp(cmd *cobra.Command, args []string) {
	if appDB != nil {
		appDB.Close()
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; route logs to a file for the duration
	logPath := filepath.Join(appHome, "chub-search.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		appLogger.SetOutput(logFile)
		defer func() {
			appLogger.SetOutput(os.Stderr)
			logFile.Close()
		}()
	}

	return ui.RunBrowse(ui.BrowseDeps{
		Client:   appClient,
		Store:    appStore,
		Database: appDB,
		Importer: appImporter,
		Logger:   appLogger,
	})
}
