package main

import (
	"fmt"
	"strings"

	"modrith/internal/domain"

	"github.com/spf13/cobra"
)

var (
	launchUsername string
	launchRAM      int
	launchServer   string
)

var launchCmd = &cobra.Command{
	Use:   "launch <profile>",
	Short: "Print the launch command for a profile",
	Long: `Build and print the command line that launches a profile, using the
installed loader version when one is recorded.

Requires a launch command builder to be configured; without one this
fails with a configuration error.

Examples:
  modrith launch survival --username steve --ram 4096`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func init() {
	launchCmd.Flags().StringVarP(&launchUsername, "username", "u", "", "player name")
	launchCmd.Flags().IntVar(&launchRAM, "ram", 0, "memory limit in MiB")
	launchCmd.Flags().StringVar(&launchServer, "server", "", "server address to join on start")

	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	argv, err := service.LaunchCommand(args[0], domain.LaunchOptions{
		Username: launchUsername,
		RAMMiB:   launchRAM,
		Server:   launchServer,
	})
	if err != nil {
		return fmt.Errorf("building launch command: %w", err)
	}

	fmt.Println(strings.Join(argv, " "))
	return nil
}
