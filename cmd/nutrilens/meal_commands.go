package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nutrilens/domain/meal"
)

func newMealsCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "meals",
		Short: "List the meal history, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			entries := mgr.Meals()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meals logged.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tCATEGORY\tNAME\tKCAL")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\n",
					e.ID, e.LoggedAt, e.Category.Label(), e.Name, e.Calories)
			}
			return w.Flush()
		},
	}
}

func newLogCommand(ctx *appContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "log <name> <calories>",
		Short: "Log a meal by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calories, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("calories must be a number: %q", args[1])
			}
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := mgr.AddManual(cmd.Context(), args[0], meal.ParseCategory(category), calories)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s, %.0f kcal) as %s\n",
				entry.Name, entry.Category.Label(), entry.Calories, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "snack", "Meal slot: breakfast, lunch, dinner or snack")
	return cmd
}

func newDeleteCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <meal-id>",
		Short: "Remove a meal from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			if !mgr.DeleteMeal(cmd.Context(), args[0]) {
				return fmt.Errorf("no meal with id %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
}

func newSummaryCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show calories consumed against the daily goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			s := mgr.Summary()
			fmt.Fprintf(cmd.OutOrStdout(), "Consumed %.0f of %d kcal, %.0f remaining\n",
				s.Consumed, s.Goal, s.Remaining)
			return nil
		},
	}
}

func newResetCommand(ctx *appContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default profile and history and clear the local snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("pass --yes to confirm wiping local data")
			}
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.ResetData(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local data reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
