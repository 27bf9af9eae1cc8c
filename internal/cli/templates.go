package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List analysis templates",
		Args:  cobra.NoArgs,
		RunE:  runTemplates,
	}

	cmd.Flags().Bool("json", false, "Print questions and formats as JSON")
	cmd.Flags().StringP("user", "u", "", "Show the template preferences of this user instead")

	RootCmd.AddCommand(cmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	username, _ := cmd.Flags().GetString("user")

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

	out := cmd.OutOrStdout()
	if username != "" {
		prefs, err := app.Journal.GetTemplatePreferences(ctx, username)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(prefs, "\n"))
		return nil
	}

	templates := app.Journal.Templates()
	if asJSON {
		return printJSON(out, templates)
	}
	for _, t := range templates {
		fmt.Fprintf(out, "%s (%d questions)\n", t.Name, len(t.Questions))
	}
	return nil
}
