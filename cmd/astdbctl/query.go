package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/srcwatch"
)

var flagQueryFormat string

var queryCmd = &cobra.Command{
	Use:   "query <name> <json-args>",
	Short: "Run a named query against --dir and print the result",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		rawArgs := ""
		if len(args) > 1 {
			rawArgs = args[1]
		}

		qargs, err := parseArgs(rawArgs)
		if err != nil {
			fatalf("query: %v", err)
		}

		cfg := loadHostConfig()
		snap, _, err := srcwatch.BuildOnce(flagDir, cfg.Limits)
		if err != nil {
			fatalf("query: %v", err)
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
	queryCmd.Flags().StringVar(&flagQueryFormat, "format", "text", "output format: text, yaml, or markdown")
	rootCmd.AddCommand(queryCmd)
}

func printQueryResult(name string, result any) {
	if flagQueryFormat == "yaml" {
		b, err := yaml.Marshal(result)
		if err != nil {
			fatalf("marshaling result: %v", err)
		}
		fmt.Print(string(b))
		return
	}

	if flagQueryFormat != "markdown" {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fatalf("marshaling result: %v", err)
		}
		fmt.Println(string(b))
		return
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatalf("marshaling result: %v", err)
	}
	md := fmt.Sprintf("## %s\n\n```json\n%s\n```\n", name, b)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(md)
		return
	}
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	rendered, err := glamour.Render(md, style)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(rendered)
}
