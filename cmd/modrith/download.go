package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var downloadModID string

var downloadCmd = &cobra.Command{
	Use:   "download <profile>",
	Short: "Download a profile's mod files",
	Long: `Download the enabled mod files of a profile into the downloads
directory, verifying recorded checksums.

With --mod only that single mod is fetched.

Examples:
  modrith download survival
  modrith download survival --mod sodium`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadModID, "mod", "m", "", "download only this mod")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	ctx := context.Background()

	if downloadModID != "" {
		path, err := service.DownloadMod(ctx, profileName, downloadModID)
		if err != nil {
			return fmt.Errorf("downloading mod: %w", err)
		}
		fmt.Printf("✓ Downloaded %s to %s\n", downloadModID, path)
		return nil
	}

	files, err := service.DownloadProfile(ctx, profileName)
	for _, f := range files {
		fmt.Printf("✓ %s\n", f)
	}
	if err != nil {
		return fmt.Errorf("downloading profile: %w", err)
	}

	fmt.Printf("Downloaded %d files.\n", len(files))
	return nil
}
