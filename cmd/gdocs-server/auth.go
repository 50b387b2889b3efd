package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google OAuth credentials",
	Long: `Auth manages the OAuth token gdocs-server uses to reach the Google Docs
and Drive APIs. Login runs the browser consent flow against the OAuth client
in credentials.json and stores the resulting token; status reports whether a
usable token exists, refreshing an expired one when possible.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the browser OAuth flow and store a token",
	RunE:  runAuthLogin,
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	return mgr.Authenticate(context.Background(), cmd.OutOrStdout())
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a usable token is stored",
	RunE:  runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	if mgr.IsAuthenticated(context.Background()) {
		fmt.Printf("Authenticated. Token stored at %s\n", mgr.TokenPath())
		return nil
	}
	fmt.Printf("Not authenticated. Run 'gdocs-server auth login' (credentials expected at %s).\n", mgr.CredentialsPath())
	return nil
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)

	rootCmd.AddCommand(authCmd)
}
