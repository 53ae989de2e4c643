package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"callboard/internal/clierr"
	"callboard/internal/output"
)

var setupCmd = &cobra.Command{
	Use:   "setup <spreadsheet-id>",
	Short: "Choose the spreadsheet backing the board",
	Long: `Stores the spreadsheet id in the config file. Pass --clear to forget the
current spreadsheet; the TUI then asks for one again on startup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().Bool("clear", false, "forget the configured spreadsheet")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clearFlag, _ := cmd.Flags().GetBool("clear")
	switch {
	case clearFlag:
		cfg.SpreadsheetID = ""
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		cfg.SpreadsheetID = strings.TrimSpace(args[0])
	default:
		return clierr.New(clierr.InvalidInput, "pass a spreadsheet id or --clear")
	}

	if err := cfg.Save(); err != nil {
		return clierr.Newf(clierr.InternalError, "saving config: %v", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"spreadsheet_id": cfg.SpreadsheetID})
	}
	if cfg.SpreadsheetID == "" {
		output.Messagef(os.Stdout, "Spreadsheet cleared.")
	} else {
		output.Messagef(os.Stdout, "Spreadsheet set to %s.", cfg.SpreadsheetID)
	}
	return nil
}
