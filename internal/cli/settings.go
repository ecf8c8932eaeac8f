package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and edit persisted search preferences",
	RunE:  runSettingsList,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings",
	RunE:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one setting",
	Long: `Sets a persisted preference. Values are coerced by the key's default
type: boolean keys take true/false, numeric keys take integers.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore all settings to their defaults",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	for _, key := range appStore.Keys() {
		value, _ := appStore.Get(key)
		cmd.Printf("  %-30s %v\n", key, value)
	}
	cmd.Printf("\nFile: %s\n", appStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	defaults := settings.Defaults()
	def, known := defaults[key]
	if !known {
		return fmt.Errorf("unknown setting %q (see 'chub-search settings list')", key)
	}

	var value any
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		value = b
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects an integer", key)
		}
		value = n
	default:
		value = raw
	}

	appStore.Set(key, value)
	if err := appStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	appStore.Reset()
	if err := appStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}
