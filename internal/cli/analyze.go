package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/smartjournal/internal/analysis"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a journal entry and print the result",
		Long:  "Analyze text from the arguments, or from stdin when no text or \"-\" is given. With --user the entry is also saved.",
		RunE:  runAnalyze,
	}

	cmd.Flags().StringSliceP("template", "t", nil, "Template name(s); more than one groups results by template")
	cmd.Flags().StringSlice("question", nil, "Custom question (requires --schema)")
	cmd.Flags().String("schema", "", "Custom output format as JSON, e.g. '{\"rested\":\"number\"}'")
	cmd.Flags().StringP("user", "u", "", "Save the entry for this user")
	cmd.Flags().String("title", "", "Entry title when saving")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	templates, _ := cmd.Flags().GetStringSlice("template")
	questions, _ := cmd.Flags().GetStringSlice("question")
	rawSchema, _ := cmd.Flags().GetString("schema")
	username, _ := cmd.Flags().GetString("user")
	title, _ := cmd.Flags().GetString("title")

	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var format map[string]any
	if strings.TrimSpace(rawSchema) != "" {
		if err := json.Unmarshal([]byte(rawSchema), &format); err != nil {
			return fmt.Errorf("parse --schema: %w", err)
		}
	}
	var single string
	if len(templates) == 1 {
		single, templates = templates[0], nil
	}
	sel, err := analysis.ParseSelector(questions, format, templates, single)
	if err != nil {
		return err
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

	if username == "" {
		result, err := app.Journal.Analyze(ctx, text, sel)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}

	res, err := app.Journal.AnalyzeAndSave(ctx, username, text, title, sel)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	buf, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(buf), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
