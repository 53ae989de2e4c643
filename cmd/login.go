package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"callboard/internal/auth"
	"callboard/internal/clierr"
	"callboard/internal/config"
	"callboard/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Runs the browser consent flow and stores the resulting token in the
config directory. Requires oauth_client.json (an OAuth desktop client) in
the same directory.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !cfg.HasOAuthClient() {
		return clierr.Newf(clierr.AuthFailed,
			"no %s in %s; download an OAuth desktop-client credential from the Google Cloud console and place it there",
			config.OAuthClientFile, cfg.Dir())
	}

	session := auth.NewSession(cfg)
	session.Initialize()

	err = session.Login(context.Background(), func(url string) {
		fmt.Fprintf(os.Stderr, "Opening your browser. If nothing happens, visit:\n  %s\n", url)
	})
	if err != nil {
		if auth.IsCancelled(err) {
			// A dismissed consent page is a choice, not a failure.
			output.Messagef(os.Stdout, "Sign-in cancelled.")
			return nil
		}
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"signed_in": true})
	}
	output.Messagef(os.Stdout, "Signed in. Token stored in %s.", cfg.Dir())
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := auth.NewSession(cfg)
	if err := session.Logout(); err != nil {
		return clierr.Newf(clierr.InternalError, "removing token: %v", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"signed_in": false})
	}
	output.Messagef(os.Stdout, "Signed out.")
	return nil
}
