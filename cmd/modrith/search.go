package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the mod index",
	Long: `Search the mod index for mods matching a query.

Examples:
  modrith search sodium
  modrith search shader pack --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var infoCmd = &cobra.Command{
	Use:   "info <mod-id>",
	Short: "Show index details for one mod",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	results, err := service.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tDOWNLOADS")
	fmt.Fprintln(w, "--\t----\t-------\t---------")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.ID, r.Name, r.LatestVersion, r.Downloads)
	}
	w.Flush()

	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	service, logger, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()
	defer logger.Sync()

	result, err := service.GetModInfo(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("fetching mod info: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("ID:          %s\n", result.ID)
	fmt.Printf("Name:        %s\n", result.Name)
	fmt.Printf("Version:     %s\n", result.LatestVersion)
	fmt.Printf("Downloads:   %d\n", result.Downloads)
	fmt.Printf("Page:        %s\n", result.SourceURL)
	if result.Description != "" {
		fmt.Printf("Description: %s\n", result.Description)
	}

	return nil
}
