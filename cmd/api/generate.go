package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"accomapi/internal/accommodation"
	"accomapi/internal/config"
	"accomapi/internal/logging"
	"accomapi/internal/model"
)

func generateCmd() *cobra.Command {
	var req model.AccommodationRequest
	var showTrace bool

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate one letter and print it to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			log, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if !cfg.Debug {
				// Keep stdout clean for the letter.
				log = zap.NewNop()
			}

			comps, err := buildComponents(cmd.Context(), cfg, log, nil, false)
			if err != nil {
				return err
			}
			defer func() { _ = comps.Close() }()

			res, err := comps.letters.Generate(cmd.Context(), "cli", req)
			if err != nil {
				var ge *accommodation.GenerationError
				if showTrace && errors.As(err, &ge) {
					_ = printTrace(cmd.ErrOrStderr(), ge.Trace)
				}
				return err
			}

			if showTrace {
				if err := printTrace(cmd.ErrOrStderr(), res.Trace); err != nil {
					return err
				}
			}
			if res.Degraded {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: got %d accommodations, want %d\n",
					len(res.Accommodations), model.TargetAccommodations)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Letter)
			return err
		},
	}

	c.Flags().StringVar(&req.Name, "name", "", "Name of the person the letter is for (required)")
	c.Flags().StringVar(&req.Disability, "disability", "", "Disability description (required)")
	c.Flags().StringVar(&req.Context, "context", "", "Institutional context, e.g. \"university student\" (required)")
	c.Flags().BoolVar(&showTrace, "trace", false, "Print the generation trace as JSON to stderr")

	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("disability")
	_ = c.MarkFlagRequired("context")
	return c
}

func printTrace(w io.Writer, tr *accommodation.Trace) error {
	if tr == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr)
}
