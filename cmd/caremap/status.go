package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show synced module versions and entity counts",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		versions, err := store.GetAllModuleVersions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		stats, err := store.GetStatistics(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"db":         store.Path(),
				"modules":    versions,
				"statistics": stats,
			})
			return
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n\n", bold("Database:"), store.Path())

		if len(versions) == 0 {
			fmt.Println("No modules synced yet")
		} else {
			fmt.Println(bold("Modules:"))
			for _, mv := range versions {
				fmt.Printf("  %-12s version %-4d synced %s\n",
					mv.Module, mv.Version, mv.LastSyncedAt.Format("2006-01-02 15:04:05"))
			}
		}

		fmt.Printf("\n%s\n", bold("Entities (active/total):"))
		printCount := func(name string, active, inactive int) {
			fmt.Printf("  %-18s %d/%d\n", name, active, active+inactive)
		}
		printCount("categories", stats.ActiveCategories, stats.InactiveCategories)
		printCount("items", stats.ActiveItems, stats.InactiveItems)
		printCount("questions", stats.ActiveQuestions, stats.InactiveQuestions)
		printCount("response options", stats.ActiveOptions, stats.InactiveOptions)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
