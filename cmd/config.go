package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"callboard/internal/clierr"
	"callboard/internal/config"
	"callboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or change configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print configuration values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Recognized keys: spreadsheet_id, model.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	values := map[string]string{
		"spreadsheet_id": cfg.SpreadsheetID,
		"model":          cfg.Model,
	}

	if len(args) == 1 {
		v, ok := values[args[0]]
		if !ok {
			return unknownConfigKey(args[0])
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]string{args[0]: v})
		}
		output.Messagef(os.Stdout, "%s", v)
		return nil
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, values)
	}
	output.Messagef(os.Stdout, "spreadsheet_id: %s", valueOrUnset(cfg.SpreadsheetID))
	output.Messagef(os.Stdout, "model:          %s", valueOrUnset(cfg.Model))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "spreadsheet_id":
		cfg.SpreadsheetID = value
	case "model":
		cfg.Model = value
	default:
		return unknownConfigKey(key)
	}

	if err := cfg.Save(); err != nil {
		return clierr.Newf(clierr.InternalError, "saving config: %v", err)
	}
	output.Messagef(os.Stdout, "%s set.", key)
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q; recognized: spreadsheet_id, model", key).
		WithDetails(map[string]any{"key": key, "file": config.ConfigFileName})
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
