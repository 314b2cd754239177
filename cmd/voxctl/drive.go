package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/codebuildervaibhav/voxscribe/internal/storage"
)

var driveLoginCmd = &cobra.Command{
	Use:   "drive-login",
	Short: "Authorize Google Drive uploads and save the OAuth token",
	Args:  cobra.NoArgs,
	RunE:  runDriveLogin,
}

func init() {
	rootCmd.AddCommand(driveLoginCmd)
}

func runDriveLogin(cmd *cobra.Command, args []string) error {
	oauthConfig, err := storage.OAuthConfig(cfg.GoogleDrive.CredentialsFile)
	if err != nil {
		return err
	}

	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(cmd.OutOrStdout(), "Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && strings.TrimSpace(code) == "" {
		return fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := oauthConfig.Exchange(cmd.Context(), strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}

	if err := storage.SaveToken(cfg.GoogleDrive.TokenFile, tok); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved credential file to: %s\n", cfg.GoogleDrive.TokenFile)
	return nil
}
