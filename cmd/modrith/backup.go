package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore profiles",
	Long: `Back up and restore profiles as zip archives.

Each profile has one backup slot under the backups directory; backing up
again overwrites the previous archive.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create <profile>",
	Short: "Archive a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupCreate,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore a profile from a backup archive",
	Long: `Restore a profile from a backup archive, replacing any profile of
the same name on disk, then reload it.

Examples:
  modrith backup restore ~/.modrith/backups/survival.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups",
	RunE:  runBackupList,
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupListCmd)

	rootCmd.AddCommand(backupCmd)
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	archivePath, err := service.Backup(args[0])
	if err != nil {
		return fmt.Errorf("backing up: %w", err)
	}

	fmt.Printf("✓ Backed up %s to %s\n", args[0], archivePath)
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	name, err := service.Restore(args[0])
	if err != nil {
		return fmt.Errorf("restoring: %w", err)
	}
	if _, err := service.ReloadProfile(name); err != nil {
		return fmt.Errorf("reloading restored profile: %w", err)
	}

	fmt.Printf("✓ Restored profile: %s\n", name)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	names, err := service.ListBackups()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(names)
	}

	if len(names) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
