package cli

import (
	"fmt"

	"github.com/smartjournal/internal/activity"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "activities [category]",
		Short: "Browse the activity catalog or a user's suggestions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runActivities,
	}

	cmd.Flags().StringP("user", "u", "", "List suggested activities for this user")
	cmd.Flags().Bool("all", false, "Include completed suggestions (with --user)")

	RootCmd.AddCommand(cmd)
}

func runActivities(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")
	includeCompleted, _ := cmd.Flags().GetBool("all")
	out := cmd.OutOrStdout()

	if username == "" {
		catalog := activity.DefaultCatalog()
		activities := catalog.All()
		if len(args) == 1 {
			activities = catalog.ByCategory(args[0])
			if len(activities) == 0 {
				return fmt.Errorf("unknown category %q (known: %v)", args[0], catalog.Categories())
			}
		}
		for _, a := range activities {
			fmt.Fprintf(out, "%-10s %-18s %2dm  %s\n", a.ID, a.Category, a.DurationMinutes, a.Name)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	suggested, err := app.Journal.ListActivities(ctx, username, includeCompleted)
	if err != nil {
		return err
	}
	return printJSON(out, suggested)
}
