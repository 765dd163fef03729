package main

import (
	"fmt"

	"modrith/internal/domain"

	"github.com/spf13/cobra"
)

var (
	modName     string
	modVersion  string
	modURL      string
	modChecksum string
	modDisabled bool
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Manage mods within a profile",
}

var modAddCmd = &cobra.Command{
	Use:   "add <profile> <mod-id>",
	Short: "Add a mod to a profile",
	Long: `Add a mod to a profile. The mod is appended to the end of the
load order and enabled unless --disabled is given.

Examples:
  modrith mod add survival sodium --name Sodium --mod-version 0.5.8 \
    --url https://cdn.modrinth.com/data/AANobbMI/versions/0.5.8/sodium.jar`,
	Args: cobra.ExactArgs(2),
	RunE: runModAdd,
}

var modRemoveCmd = &cobra.Command{
	Use:   "remove <profile> <mod-id>",
	Short: "Remove a mod from a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runModRemove,
}

var modEnableCmd = &cobra.Command{
	Use:   "enable <profile> <mod-id>",
	Short: "Enable a mod",
	Args:  cobra.ExactArgs(2),
	RunE:  runModEnable,
}

var modDisableCmd = &cobra.Command{
	Use:   "disable <profile> <mod-id>",
	Short: "Disable a mod without removing it",
	Args:  cobra.ExactArgs(2),
	RunE:  runModDisable,
}

var modReorderCmd = &cobra.Command{
	Use:   "reorder <profile> <mod-id>...",
	Short: "Replace a profile's load order",
	Long: `Replace a profile's load order. The given ids must be exactly the
profile's mods, each listed once.

Examples:
  modrith mod reorder survival lithium sodium`,
	Args: cobra.MinimumNArgs(2),
	RunE: runModReorder,
}

var modSetCmd = &cobra.Command{
	Use:   "set <profile> <key> <value>",
	Short: "Set a profile configuration value",
	Args:  cobra.ExactArgs(3),
	RunE:  runModSet,
}

func init() {
	modAddCmd.Flags().StringVar(&modName, "name", "", "display name")
	modAddCmd.Flags().StringVar(&modVersion, "mod-version", "", "mod version")
	modAddCmd.Flags().StringVar(&modURL, "url", "", "download URL")
	modAddCmd.Flags().StringVar(&modChecksum, "checksum", "", "hex digest of the mod file")
	modAddCmd.Flags().BoolVar(&modDisabled, "disabled", false, "add the mod disabled")

	modCmd.AddCommand(modAddCmd)
	modCmd.AddCommand(modRemoveCmd)
	modCmd.AddCommand(modEnableCmd)
	modCmd.AddCommand(modDisableCmd)
	modCmd.AddCommand(modReorderCmd)
	modCmd.AddCommand(modSetCmd)

	rootCmd.AddCommand(modCmd)
}

func runModAdd(cmd *cobra.Command, args []string) error {
	profileName, modID := args[0], args[1]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	mod := domain.Mod{
		ID:        modID,
		Name:      modName,
		Version:   modVersion,
		SourceURL: modURL,
		Checksum:  modChecksum,
		Enabled:   !modDisabled,
	}
	if mod.Name == "" {
		mod.Name = modID
	}

	if err := service.AddMod(profileName, mod); err != nil {
		return fmt.Errorf("adding mod: %w", err)
	}

	fmt.Printf("✓ Added %s to %s\n", modID, profileName)
	return nil
}

func runModRemove(cmd *cobra.Command, args []string) error {
	profileName, modID := args[0], args[1]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.RemoveMod(profileName, modID); err != nil {
		return fmt.Errorf("removing mod: %w", err)
	}

	fmt.Printf("✓ Removed %s from %s\n", modID, profileName)
	return nil
}

func runModEnable(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.EnableMod(args[0], args[1]); err != nil {
		return fmt.Errorf("enabling mod: %w", err)
	}

	fmt.Printf("✓ Enabled %s\n", args[1])
	return nil
}

func runModDisable(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.DisableMod(args[0], args[1]); err != nil {
		return fmt.Errorf("disabling mod: %w", err)
	}

	fmt.Printf("✓ Disabled %s\n", args[1])
	return nil
}

func runModReorder(cmd *cobra.Command, args []string) error {
	profileName, order := args[0], args[1:]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.Reorder(profileName, order); err != nil {
		return fmt.Errorf("reordering mods: %w", err)
	}

	fmt.Printf("✓ Reordered %s\n", profileName)
	return nil
}

func runModSet(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.SetConfigValue(args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("setting config value: %w", err)
	}

	fmt.Printf("✓ Set %s=%s on %s\n", args[1], args[2], args[0])
	return nil
}
