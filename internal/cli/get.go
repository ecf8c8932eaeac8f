package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

var getCmd = &cobra.Command{
	Use:   "get <fullPath>",
	Short: "Download one card and import it into the library",
	Long: `Downloads a card by its catalog identifier ("<author>/<slug>") and
imports it into the local library. When both import endpoints fail, the
catalog page URL is printed as a manual fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	fullPath := strings.TrimSpace(args[0])
	if fullPath == "" {
		return errors.New("identifier cannot be empty")
	}

	var file *api.ImportFile
	var downloadErr error
	err := spinner.New().
		Title(fmt.Sprintf("Downloading %s...", fullPath)).
		Action(func() {
			file, downloadErr = appClient.DownloadCharacter(context.Background(), fullPath)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}

	if downloadErr != nil {
		var unavailable *api.ImportUnavailableError
		if errors.As(downloadErr, &unavailable) {
			appLogger.Error("both import endpoints failed", "fullPath", fullPath)
			cmd.Printf("Download failed. Open the catalog page to fetch it manually:\n  %s\n", unavailable.PageURL)
			return nil
		}
		return fmt.Errorf("download failed: %w", downloadErr)
	}

	if file.Kind == api.KindUnknown {
		appLogger.Warn("unknown content type, nothing imported", "fullPath", fullPath)
		cmd.Println("The catalog returned an unrecognized content type; nothing was imported.")
		return nil
	}

	ch := characterFromPath(fullPath)
	path, err := appImporter.Import(file, ch)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %s → %s\n", fullPath, path)
	return nil
}

// characterFromPath builds a minimal canonical record for a direct download,
// where no search result metadata is available.
func characterFromPath(fullPath string) models.Character {
	author := fullPath
	name := fullPath
	if idx := strings.Index(fullPath, "/"); idx >= 0 {
		author = fullPath[:idx]
		name = fullPath[idx+1:]
	}
	return models.Character{
		FullPath:    fullPath,
		Name:        name,
		Author:      author,
		Description: api.DefaultDescription,
		ImageURL:    api.PlaceholderImage,
	}
}
