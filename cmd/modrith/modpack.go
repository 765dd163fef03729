package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modpackOutDir string

var modpackCmd = &cobra.Command{
	Use:   "modpack",
	Short: "Share profiles as modpacks",
	Long: `Export a profile as a shareable modpack archive, or import one
as a new profile.

A modpack bundles the profile document with a human-readable manifest
listing its mods and packs.`,
}

var modpackExportCmd = &cobra.Command{
	Use:   "export <profile>",
	Short: "Export a profile as a modpack archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runModpackExport,
}

var modpackImportCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import a modpack archive as a new profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runModpackImport,
}

func init() {
	modpackExportCmd.Flags().StringVarP(&modpackOutDir, "out", "o", "", "output directory (default: downloads dir)")

	modpackCmd.AddCommand(modpackExportCmd)
	modpackCmd.AddCommand(modpackImportCmd)

	rootCmd.AddCommand(modpackCmd)
}

func runModpackExport(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	archivePath, err := service.ExportModpack(args[0], modpackOutDir)
	if err != nil {
		return fmt.Errorf("exporting modpack: %w", err)
	}

	fmt.Printf("✓ Exported %s to %s\n", args[0], archivePath)
	return nil
}

func runModpackImport(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	p, err := service.ImportModpack(args[0])
	if err != nil {
		return fmt.Errorf("importing modpack: %w", err)
	}

	fmt.Printf("✓ Imported profile: %s (%d mods)\n", p.Name, len(p.Mods))
	return nil
}
