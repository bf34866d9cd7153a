package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lcm/internal/contract"
	"lcm/internal/guard"
	guardhandler "lcm/internal/guard/handler"
	"lcm/internal/orchestrator"
	"lcm/internal/questionqueue"
	rendererhandler "lcm/internal/renderer/handler"
	"lcm/pkg/domain"
)

// errBlocked makes a blocked evaluation exit non-zero after printing it.
var errBlocked = errors.New("blocked")

func newEvaluateCmd(g *globals) *cobra.Command {
	var strict bool
	var draft string
	cmd := &cobra.Command{
		Use:   "evaluate <text>",
		Short: "Run the intent guard over a user message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := g.language()
			if err != nil {
				return err
			}
			gd, _, _, err := g.pipeline(cmd)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			var d guard.Decision
			var resp *guardhandler.EvaluateResponse
			if draft != "" {
				var pass guard.Pass
				d, pass = gd.EvaluateTwoPass(text, draft, lang)
				resp = guardhandler.FromTwoPass(d, pass)
			} else {
				d = gd.Evaluate(text, lang)
				resp = guardhandler.FromDecision(d)
			}
			if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if strict && d.Blocked {
				return errBlocked
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the text is blocked")
	cmd.Flags().StringVar(&draft, "draft", "", "also check a candidate reply after the user message")
	return cmd
}

func newRenderCmd(g *globals) *cobra.Command {
	var file string
	var textOnly bool
	cmd := &cobra.Command{
		Use:   "render -f request.json",
		Short: "Render a golden-sequence message from a render request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var req rendererhandler.RenderRequest
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				return fmt.Errorf("decode render request: %w", err)
			}
			if req.Language == "" {
				req.Language = g.lang
			}
			if err := req.Validate(); err != nil {
				return err
			}
			_, r, _, err := g.pipeline(cmd)
			if err != nil {
				return err
			}
			msg, err := r.Render(req.Parsed())
			if err != nil {
				return err
			}
			if textOnly {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.Text)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), msg)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "render request json (- for stdin)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "print only the message text")
	return cmd
}

func newRespondCmd(g *globals) *cobra.Command {
	var state, category string
	cmd := &cobra.Command{
		Use:   "respond <user message>",
		Short: "Produce the first response for a user message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := g.language()
			if err != nil {
				return err
			}
			in := orchestrator.Input{
				UserMessage:  strings.Join(args, " "),
				CategoryText: category,
			}
			if state != "" {
				if in.StateID, err = domain.ParseStateID(state); err != nil {
					return err
				}
			}
			_, _, svc, err := g.pipeline(cmd)
			if err != nil {
				return err
			}
			resp, err := svc.ProduceFirstResponse(cmd.Context(), in, lang)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "golden-sequence state id (default S1_MIN_FACTS_REQUEST)")
	cmd.Flags().StringVar(&category, "category", "", "category label shown in the declaration")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input.json> <output.json>",
		Short: "Check one input/output exchange against the request and response contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			if err := contract.New().ValidatePair(in, out); err != nil {
				return fmt.Errorf("%s: %w", contract.RejectCodeOf(err), err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}

func newQuestionsCmd(g *globals) *cobra.Command {
	var answers []string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Show the next fact question to ask, one at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang, err := g.language()
			if err != nil {
				return err
			}
			ts, err := g.loadTemplates()
			if err != nil {
				return err
			}
			questions := questionqueue.FromFacts(ts.DefaultFacts, lang)

			given := questionqueue.Answers{}
			for _, a := range answers {
				id, value, ok := strings.Cut(a, "=")
				if !ok || id == "" {
					return fmt.Errorf("answer %q: want id=value", a)
				}
				given = questionqueue.Apply(given, id, value)
			}

			q, ok, err := questionqueue.Next(questions, given)
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "done")
				return err
			}
			return writeJSON(cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "answered question as id=value (repeatable)")
	return cmd
}
