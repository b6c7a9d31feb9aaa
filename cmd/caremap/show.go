package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a category, item, or question by code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		code := args[0]

		if cat, err := store.GetCategoryByCode(ctx, code); err != nil {
			fatal(err)
		} else if cat != nil {
			showCategory(ctx, cat)
			return
		}

		if item, err := store.GetItemByCode(ctx, code); err != nil {
			fatal(err)
		} else if item != nil {
			showItem(ctx, item)
			return
		}

		if q, err := store.GetQuestionByCode(ctx, code); err != nil {
			fatal(err)
		} else if q != nil {
			showQuestion(ctx, q)
			return
		}

		fmt.Fprintf(os.Stderr, "Error: no category, item, or question with code %s\n", code)
		os.Exit(1)
	},
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func statusLabel(status types.EntityStatus) string {
	if status == types.StatusActive {
		return color.GreenString(string(status))
	}
	return color.RedString(string(status))
}

func showCategory(ctx context.Context, cat *types.Category) {
	items, err := store.GetItemsByCategory(ctx, cat.ID)
	if err != nil {
		fatal(err)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{"category": cat, "items": items})
		return
	}

	fmt.Printf("%s %s (%s)\n", color.New(color.Bold).Sprint(cat.Code), cat.Name, statusLabel(cat.Status))
	for _, item := range items {
		fmt.Printf("  %-20s %-24s %-8s %s\n", item.Code, item.Name, item.Frequency, statusLabel(item.Status))
	}
}

func showItem(ctx context.Context, item *types.Item) {
	questions, err := store.GetQuestionsByItem(ctx, item.ID)
	if err != nil {
		fatal(err)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{"item": item, "questions": questions})
		return
	}

	fmt.Printf("%s %s (%s, %s)\n", color.New(color.Bold).Sprint(item.Code), item.Name, item.Frequency, statusLabel(item.Status))
	for _, q := range questions {
		fmt.Printf("  %-20s %-12s %s\n", q.Code, q.Type, statusLabel(q.Status))
	}
}

func showQuestion(ctx context.Context, q *types.Question) {
	options, err := store.GetOptionsByQuestion(ctx, q.ID)
	if err != nil {
		fatal(err)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{"question": q, "options": options})
		return
	}

	fmt.Printf("%s %s (%s, %s)\n", color.New(color.Bold).Sprint(q.Code), q.Text, q.Type, statusLabel(q.Status))
	if q.Subtype != nil {
		fmt.Printf("  subtype:   %s\n", *q.Subtype)
	}
	if q.Units != nil {
		fmt.Printf("  units:     %s\n", *q.Units)
	}
	if q.MinValue != nil && q.MaxValue != nil {
		fmt.Printf("  range:     %g - %g\n", *q.MinValue, *q.MaxValue)
	}
	if q.ParentQuestionID != nil {
		if parent, err := store.GetQuestionByID(ctx, *q.ParentQuestionID); err == nil && parent != nil {
			fmt.Printf("  parent:    %s\n", parent.Code)
		}
	}
	if q.DisplayCondition != nil {
		fmt.Printf("  condition: %s\n", *q.DisplayCondition)
	}
	for _, opt := range options {
		fmt.Printf("  option %-16s %-24s %s\n", opt.Code, opt.Text, statusLabel(opt.Status))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
