package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage resource and data packs within a profile",
}

var packResourceCmd = &cobra.Command{
	Use:   "resource <profile> <pack>",
	Short: "Add a resource pack reference to a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runPackResource,
}

var packDataCmd = &cobra.Command{
	Use:   "data <profile> <pack>",
	Short: "Add a data pack reference to a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runPackData,
}

func init() {
	packCmd.AddCommand(packResourceCmd)
	packCmd.AddCommand(packDataCmd)

	rootCmd.AddCommand(packCmd)
}

func runPackResource(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.AddResourcePack(args[0], args[1]); err != nil {
		return fmt.Errorf("adding resource pack: %w", err)
	}

	fmt.Printf("✓ Added resource pack %s to %s\n", args[1], args[0])
	return nil
}

func runPackData(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.AddDataPack(args[0], args[1]); err != nil {
		return fmt.Errorf("adding data pack: %w", err)
	}

	fmt.Printf("✓ Added data pack %s to %s\n", args[1], args[0])
	return nil
}
