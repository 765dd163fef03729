package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profileGameID string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage named mod profiles.

Each profile is a self-contained configuration of mods, load order, and
packs for one game installation, stored as its own document on disk.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create a new empty profile for a game version.

Examples:
  modrith profile create survival --game 1.20.1`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's mods and load order",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileSetGameCmd = &cobra.Command{
	Use:   "set-game <name> <game-id>",
	Short: "Switch a profile to a different game version",
	Long: `Switch a profile to a different game version. Any recorded loader
version is cleared, since it was installed for the old one.

Examples:
  modrith profile set-game survival 1.21`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileSetGame,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long: `Delete a profile from disk and memory.

Backups of the profile are kept; use 'modrith backup restore' to bring
a deleted profile back.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDelete,
}

func init() {
	profileCreateCmd.Flags().StringVarP(&profileGameID, "game", "g", "", "game version the profile targets (required)")
	_ = profileCreateCmd.MarkFlagRequired("game")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetGameCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	names := service.ListProfiles()

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(names)
	}

	if len(names) == 0 {
		fmt.Println("No profiles found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGAME\tMODS")
	fmt.Fprintln(w, "----\t----\t----")
	for _, name := range names {
		p, err := service.GetProfile(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.GameID, len(p.Mods))
	}
	w.Flush()

	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	p, err := service.CreateProfile(name, profileGameID)
	if err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}

	fmt.Printf("✓ Created profile: %s (%s)\n", p.Name, p.GameID)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	p, err := service.GetProfile(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Printf("Profile: %s\nGame:    %s\n", p.Name, p.GameID)

	if len(p.LoadOrder) == 0 {
		fmt.Println("\nNo mods.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\n#\tID\tNAME\tVERSION\tENABLED")
		for i, id := range p.LoadOrder {
			mod := p.Mods[id]
			enabled := ""
			if mod.Enabled {
				enabled = "✓"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, mod.ID, mod.Name, mod.Version, enabled)
		}
		w.Flush()
	}

	if len(p.ResourcePacks) > 0 {
		fmt.Printf("\nResource packs: %v\n", p.ResourcePacks)
	}
	if len(p.DataPacks) > 0 {
		fmt.Printf("Data packs: %v\n", p.DataPacks)
	}

	return nil
}

func runProfileSetGame(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.SetGameID(args[0], args[1]); err != nil {
		return fmt.Errorf("switching game version: %w", err)
	}

	fmt.Printf("✓ %s now targets %s\n", args[0], args[1])
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	if err := service.DeleteProfile(name); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	fmt.Printf("✓ Deleted profile: %s\n", name)
	return nil
}
