package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/seed"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a month of mock journal entries for a user",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}

	cmd.Flags().StringP("user", "u", "joe", "Username to seed")
	cmd.Flags().String("profile", seed.BipolarCycle.Name, "Mood profile")
	cmd.Flags().Int("year", 2025, "Year")
	cmd.Flags().Int("month", 3, "Month (1-12)")
	cmd.Flags().Uint64("seed", 1, "Random seed for entry text and triggers")

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")
	profileName, _ := cmd.Flags().GetString("profile")
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	rngSeed, _ := cmd.Flags().GetUint64("seed")

	profile, ok := seed.Profiles[strings.ToLower(profileName)]
	if !ok {
		known := make([]string, 0, len(seed.Profiles))
		for name := range seed.Profiles {
			known = append(known, name)
		}
		sort.Strings(known)
		return fmt.Errorf("unknown profile %q (known: %s)", profileName, strings.Join(known, ", "))
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
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

	entries := seed.Generate(profile, year, time.Month(month), activity.NewRand(rngSeed))
	suggestions := 0
	for _, e := range entries {
		date := e.Date
		app.Journal.SetClock(func() time.Time { return date })
		res, err := app.Journal.Save(ctx, username, e.Text, e.Title, e.Classification)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("save entry for %s: %s", date.Format(time.DateOnly), res.Message)
		}
		if res.ActivitySuggested {
			suggestions++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries and %d suggestions for %s\n", len(entries), suggestions, username)
	return nil
}
