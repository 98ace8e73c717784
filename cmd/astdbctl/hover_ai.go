package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/srcwatch"
)

const hoverAIModel = "claude-3-5-haiku-20241022"

var flagHoverAI bool
var flagHoverMode string

var hoverCmd = &cobra.Command{
	Use:   "hover <cid>",
	Short: "Show a node's kind and span; with --ai, draft a one-line summary via Claude",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := cid.Parse(args[0])
		if err != nil {
			fatalf("hover: %v", err)
		}

		cfg := loadHostConfig()
		snap, _, err := srcwatch.BuildOnce(flagDir, cfg.Limits)
		if err != nil {
			fatalf("hover: %v", err)
		}

		mode := query.ModeProduction
		if flagHoverMode == "debug" {
			mode = query.ModeDebug
		}
		engine := query.NewEngine(snap, mode, cfg.CIDOpts)
		query.RegisterDefaults(engine)

		if flagHoverAI {
			registerHoverAI(engine)
			result, err := engine.Query(context.Background(), "HoverAI", []query.Arg{query.CIDArg(c)})
			if err != nil {
				if errors.Is(err, query.ErrImpureNetwork) {
					fmt.Fprintln(os.Stderr, "hover --ai: blocked by purity guard (Q1003) in debug mode")
					printDiagnostics(engine)
					os.Exit(1)
				}
				fatalf("hover --ai: %v", err)
			}
			printDiagnostics(engine)
			printQueryResult("HoverAI", result)
			return
		}

		result, err := engine.Query(context.Background(), "Hover", []query.Arg{query.CIDArg(c)})
		if err != nil {
			fatalf("hover: %v", err)
		}
		printQueryResult("Hover", result)
	},
}

func init() {
	hoverCmd.Flags().BoolVar(&flagHoverAI, "ai", false, "draft a natural-language summary with Claude (impure: network)")
	hoverCmd.Flags().StringVar(&flagHoverMode, "mode", "production", "purity guard mode for --ai: debug or production")
	rootCmd.AddCommand(hoverCmd)
}

func printDiagnostics(engine *query.Engine) {
	for _, d := range engine.Diagnostics() {
		log.Printf("diagnostic %s: %s (%s)", d.Code, d.Message, d.Suggestion)
	}
}

// registerHoverAI wires the CLI's one deliberately impure extension
// query: it crosses the purity guard's NetworkDial checkpoint first, then
// recurses into the pure Hover query for node info before calling the
// Anthropic API to draft a summary. In debug mode NetworkDial fails with
// ErrImpureNetwork/Q1003 before any request is made; in production mode
// the diagnostic is recorded but the call proceeds, matching the named
// scenario this command exists to demonstrate.
func registerHoverAI(engine *query.Engine) {
	engine.RegisterQuery("HoverAI", func(ctx context.Context, ro *query.RO, args []query.Arg) (any, error) {
		// The guard checkpoint runs before any other work so that debug
		// mode rejects this query deterministically, whether or not the
		// argument CID resolves to a real node.
		if _, err := ro.NetworkDial("api.anthropic.com:443"); err != nil {
			return nil, err
		}

		hoverResult, err := ro.Recurse(ctx, "Hover", args)
		if err != nil {
			return nil, err
		}
		info, ok := hoverResult.(query.HoverInfo)
		if !ok || !info.Found {
			return "symbol not found", nil
		}

		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return fmt.Sprintf("node kind=%v line=%d (set ANTHROPIC_API_KEY for an AI summary)", info.Kind, info.Span.StartLine), nil
		}

		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		prompt := fmt.Sprintf(
			"In one short sentence, describe what an AST node of kind %v spanning source line %d to %d might represent in a small program.",
			info.Kind, info.Span.StartLine, info.Span.EndLine)

		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     hoverAIModel,
			MaxTokens: 256,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("hover --ai: anthropic call: %w", err)
		}
		if len(message.Content) == 0 || message.Content[0].Type != "text" {
			return nil, fmt.Errorf("hover --ai: unexpected response format")
		}
		return message.Content[0].Text, nil
	})
}
