package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the game account login",
	Long: `Manage the game account login.

Login runs the configured authentication flow and persists the returned
token; launch picks the token up automatically. Without a configured
authenticator, login fails with a configuration error.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the account token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the persisted account token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an account token is stored",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	identity, err := service.Login(context.Background())
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	fmt.Printf("✓ Logged in as %s\n", identity.Username)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.Logout(); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	fmt.Println("✓ Logged out")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	loggedIn, err := service.LoggedIn()
	if err != nil {
		return fmt.Errorf("checking login status: %w", err)
	}

	if loggedIn {
		fmt.Println("Logged in (token stored).")
	} else {
		fmt.Println("Not logged in.")
	}
	return nil
}
