package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jfmyers9/toptracks/internal/config"
	"github.com/spf13/cobra"
)

var authSaveDir string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Set up and verify Spotify credentials",
	Long: `Set up Spotify client credentials for toptracks.

This command will:
1. Prompt for your Spotify client ID and secret (unless already configured)
2. Verify them by requesting an access token
3. Save them to your config file

You can create an app and get credentials from:
https://developer.spotify.com/dashboard`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().StringVar(&authSaveDir, "config-dir", "", "Directory to save config.yaml in (default: ~/.config/toptracks)")
}

func runAuth(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	// Load existing config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Spotify Authentication")
	fmt.Fprintln(out, "======================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You can get client credentials from: https://developer.spotify.com/dashboard")
	fmt.Fprintln(out)

	// Check if we already have credentials
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		fmt.Fprintf(out, "Found existing client credentials.\n")
		fmt.Fprintf(out, "Client ID: %s\n", cfg.Spotify.MaskedClientID())
		fmt.Fprint(out, "\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			// User wants to enter new credentials
			cfg.Spotify.ClientID = ""
			cfg.Spotify.ClientSecret = ""
		}
	}

	if cfg.Spotify.ClientID == "" {
		cfg.Spotify.ClientID, err = prompt(out, reader, "Enter your Spotify Client ID: ")
		if err != nil {
			return fmt.Errorf("failed to read client ID: %w", err)
		}
	}

	if cfg.Spotify.ClientSecret == "" {
		cfg.Spotify.ClientSecret, err = prompt(out, reader, "Enter your Spotify Client Secret: ")
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
	}

	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return config.ErrMissingCredentials
	}

	// Verify by requesting a token
	logger := setupLogger(cfg.Log.File, cfg.Log.Level)
	client, err := newSpotifyClient(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nRequesting access token...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
	defer cancel()

	token, err := client.Auth().Token(ctx)
	if err != nil {
		logger.Debug().Err(err).Str("client_id", cfg.Spotify.MaskedClientID()).Msg("Token request rejected")
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	path, err := cfg.Save(authSaveDir)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Credentials verified (token valid for %s)\n", tokenLifetime(token.Expiry))
	fmt.Fprintf(out, "✓ Credentials saved to %s\n", path)
	fmt.Fprintln(out, "\nYou can now use 'toptracks search <artist>'.")

	return nil
}

// prompt prints label and reads one trimmed line
func prompt(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// tokenLifetime describes how long a token stays valid
func tokenLifetime(expiry time.Time) string {
	if expiry.IsZero() {
		return "an unspecified time"
	}
	return time.Until(expiry).Round(time.Minute).String()
}
