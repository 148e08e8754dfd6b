package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/infrastructure/config"
	"github.com/yogishpa/graph-samples/infrastructure/di"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

type gremlinRunner interface {
	Run(ctx context.Context, parameterName string, fallback valueobjects.Query) services.RunReport
}

type cypherRunner interface {
	RunQuery(ctx context.Context, query string) (any, error)
	ExploreSchema(ctx context.Context) []services.SchemaSection
	Ask(ctx context.Context, sessionID, question string) (*services.ChatReply, error)
}

// app is built before any subcommand runs
type app struct {
	container *di.QueryContainer
	cleanup   func()
	indent    int
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "graph-query",
		Short:        "Run queries against a Neptune graph",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.container, a.cleanup, err = di.InitializeQueryContainer(cmd.Context(), cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
			if a.container != nil {
				_ = a.container.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().IntVar(&a.indent, "indent", 2, "JSON indentation")

	root.AddCommand(
		newGremlinCmd(a),
		newCypherCmd(a),
		newExploreCmd(a),
		newAskCmd(a),
	)
	return root
}

func newGremlinCmd(a *app) *cobra.Command {
	var parameter, fallback string

	cmd := &cobra.Command{
		Use:   "gremlin",
		Short: "Run the Gremlin query stored in the parameter store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fallback == "" {
				fallback = a.container.Config.GremlinFallbackQuery
			}
			if fallback == "" {
				fallback = a.container.Catalog.Catalog().GremlinFallback
			}
			if parameter == "" {
				parameter = a.container.Config.GremlinParameterName
			}
			return runGremlin(cmd.Context(), a.container.Runner, cmd.OutOrStdout(), parameter, fallback, a.indent)
		},
	}
	cmd.Flags().StringVar(&parameter, "parameter", "", "parameter holding the query (default GREMLIN_PARAMETER_NAME)")
	cmd.Flags().StringVar(&fallback, "fallback", "", "query used when the parameter is unavailable")
	return cmd
}

func newCypherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cypher <query>",
		Short: "Run an OpenCypher query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCypher(cmd.Context(), a.container.Chat, cmd.OutOrStdout(), strings.Join(args, " "), a.indent)
		},
	}
}

func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Run the schema exploration queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd.Context(), a.container.Chat, cmd.OutOrStdout(), a.indent)
		},
	}
}

func newAskCmd(a *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question in natural language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.container.Chat.Ask(cmd.Context(), sessionID, strings.Join(args, " "))
			if err != nil {
				return errors.New(pkgerrors.Payload(err))
			}
			return printJSON(cmd.OutOrStdout(), reply, a.indent)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session to continue")
	return cmd
}

func runGremlin(ctx context.Context, runner gremlinRunner, out io.Writer, parameter, fallback string, indent int) error {
	report := runner.Run(ctx, parameter, valueobjects.NewGremlinQuery(fallback))
	if report.UsedFallback {
		fmt.Fprintf(out, "Parameter Store access failed: %s\n", pkgerrors.Payload(report.ResolveErr))
		fmt.Fprintln(out, "Falling back to direct query...")
	}
	if report.Err != nil {
		return errors.New(pkgerrors.Payload(report.Err))
	}

	data, err := encodeJSON(report.Result, indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Query Results:")
	fmt.Fprintln(out, string(data))
	return nil
}

func runCypher(ctx context.Context, chat cypherRunner, out io.Writer, query string, indent int) error {
	results, err := chat.RunQuery(ctx, query)
	if err != nil {
		return errors.New(pkgerrors.Payload(err))
	}
	data, err := encodeJSON(results, indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Query Results:")
	fmt.Fprintln(out, string(data))
	return nil
}

func runExplore(ctx context.Context, chat cypherRunner, out io.Writer, indent int) error {
	for _, section := range chat.ExploreSchema(ctx) {
		fmt.Fprintf(out, "== %s ==\n%s\n", section.Name, section.Query)
		if section.Error != "" {
			fmt.Fprintf(out, "Error: %s\n", section.Error)
			continue
		}
		if err := printJSON(out, section.Results, indent); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(out io.Writer, v any, indent int) error {
	data, err := encodeJSON(v, indent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func encodeJSON(v any, indent int) ([]byte, error) {
	data, err := json.MarshalIndent(jsonSafe(v), "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	return data, nil
}

// jsonSafe replaces NaN and infinities, which JSON cannot carry, with the
// strings GraphSON uses for them.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case float64:
		switch {
		case math.IsNaN(t):
			return "NaN"
		case math.IsInf(t, 1):
			return "Infinity"
		case math.IsInf(t, -1):
			return "-Infinity"
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = jsonSafe(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = jsonSafe(item)
		}
		return out
	}
	return v
}
