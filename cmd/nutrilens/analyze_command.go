package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nutrilens/application/capture"
	"nutrilens/domain/nutrition"
)

func newAnalyzeCommand(ctx *appContext) *cobra.Command {
	var logMeal bool

	cmd := &cobra.Command{
		Use:   "analyze [image-file]",
		Short: "Capture or load a food photo and analyze it",
		Long: "Captures a photo from the configured device (falling back to the newest " +
			"image in the pictures directory) or loads the given file, and runs the " +
			"nutrition analysis on it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}

			var payload capture.Payload
			if len(args) == 1 {
				payload, err = ctx.adapter.CaptureFile(args[0])
			} else {
				payload, err = ctx.adapter.Capture(cmd.Context())
			}
			if err != nil {
				return err
			}

			rec := ctx.analyzer.Analyze(cmd.Context(), payload)
			printRecord(cmd, rec)

			if logMeal {
				entry := mgr.AddFromAnalysis(cmd.Context(), rec, payload)
				fmt.Fprintf(cmd.OutOrStdout(), "\nLogged as %s (%s)\n", entry.Name, entry.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&logMeal, "log", false, "Log the result to the meal history")
	return cmd
}

func printRecord(cmd *cobra.Command, rec nutrition.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", rec.FoodName)
	if rec.Description != "" {
		fmt.Fprintf(out, "%s\n", rec.Description)
	}
	fmt.Fprintf(out, "Calories: %.0f kcal\n", rec.Calories)
	fmt.Fprintf(out, "Protein %.0fg / Carbs %.0fg / Fat %.0fg\n",
		rec.Macros.Protein, rec.Macros.Carbs, rec.Macros.Fat)
	if rec.Highlights.Fiber != "" || rec.Highlights.Energy != "" {
		fmt.Fprintf(out, "Highlights: %s %s\n", rec.Highlights.Fiber, rec.Highlights.Energy)
	}
}
