package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/srcwatch"
)

var pickBannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

var namedQueries = []string{
	"ResolveName", "TypeOf", "Effects", "Dispatch", "Hover", "Definition", "References",
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick a named query and its arguments",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(pickBannerStyle.Render("astdbctl — interactive query picker"))

		var name string
		var rawArgs string

		options := make([]huh.Option[string], len(namedQueries))
		for i, q := range namedQueries {
			options[i] = huh.NewOption(q, q)
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Query").
					Description("Which named query to run").
					Options(options...).
					Value(&name),

				huh.NewInput().
					Title("Arguments").
					Description(`JSON array, e.g. [{"cid":"deadbeef..."}]`).
					Value(&rawArgs),
			),
		).WithTheme(huh.ThemeDracula())

		if err := form.Run(); err != nil {
			if err == huh.ErrUserAborted {
				fmt.Fprintln(os.Stderr, "canceled.")
				os.Exit(0)
			}
			fatalf("form error: %v", err)
		}

		qargs, err := parseArgs(rawArgs)
		if err != nil {
			fatalf("pick: %v", err)
		}

		cfg := loadHostConfig()
		snap, _, err := srcwatch.BuildOnce(flagDir, cfg.Limits)
		if err != nil {
			fatalf("pick: %v", err)
		}

		engine := query.NewEngine(snap, query.ModeProduction, cfg.CIDOpts)
		query.RegisterDefaults(engine)

		result, err := engine.Query(context.Background(), name, qargs)
		if err != nil {
			fatalf("query %s: %v", name, err)
		}
		printQueryResult(name, result)
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
