package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lcm/internal/guard"
	"lcm/internal/invariant"
	"lcm/internal/orchestrator"
	"lcm/internal/renderer"
	"lcm/pkg/domain"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	lang      string
	templates string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "lcmctl",
		Short:         "Evaluate, render and validate first responses locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.lang, "lang", string(domain.DefaultLanguage), "response language (ko, en)")
	root.PersistentFlags().StringVar(&g.templates, "templates", "", "template yaml file (default: embedded)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log pipeline decisions to stderr")

	root.AddCommand(
		newEvaluateCmd(g),
		newRenderCmd(g),
		newRespondCmd(g),
		newValidateCmd(),
		newQuestionsCmd(g),
	)
	return root
}

func (g *globals) language() (domain.Language, error) {
	lang := domain.Language(g.lang)
	if !lang.IsValid() {
		return "", fmt.Errorf("unsupported language %q", g.lang)
	}
	return lang, nil
}

func (g *globals) logger(cmd *cobra.Command) *slog.Logger {
	if !g.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (g *globals) loadTemplates() (*renderer.TemplateSet, error) {
	if g.templates == "" {
		return renderer.DefaultTemplates()
	}
	return renderer.LoadTemplateFile(g.templates, invariant.Default())
}

// pipeline wires the same services the server uses, minus audit and metrics.
func (g *globals) pipeline(cmd *cobra.Command) (*guard.Guard, *renderer.Renderer, *orchestrator.Service, error) {
	log := g.logger(cmd)
	ts, err := g.loadTemplates()
	if err != nil {
		return nil, nil, nil, err
	}
	gd := guard.New(guard.WithLogger(log))
	r, err := renderer.New(ts, renderer.WithLogger(log))
	if err != nil {
		return nil, nil, nil, err
	}
	return gd, r, orchestrator.New(gd, r, orchestrator.WithLogger(log)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
