package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nutrilens/domain/recipe"
)

func newRecipesCommand(ctx *appContext) *cobra.Command {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse the built-in recipe catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCALORIES")
			for _, r := range recipe.Catalog() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Title, r.Cal)
			}
			return w.Flush()
		},
	}

	recipesCmd.AddCommand(newRecipeShowCommand())
	recipesCmd.AddCommand(newRecipeLogCommand(ctx))
	return recipesCmd
}

func newRecipeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe's ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := findRecipe(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n%s\n\nIngredients:\n", r.Title, r.Cal, r.Description)
			for _, ing := range r.Ingredients {
				fmt.Fprintf(out, "  - %s\n", ing)
			}
			fmt.Fprintln(out, "\nSteps:")
			for i, step := range r.Steps {
				fmt.Fprintf(out, "  %d. %s\n", i+1, step)
			}
			return nil
		},
	}
}

func newRecipeLogCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log <id>",
		Short: "Log a recipe as a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := findRecipe(args[0])
			if err != nil {
				return err
			}
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			entry := mgr.AddFromRecipe(cmd.Context(), r)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%.0f kcal) as %s\n",
				entry.Name, entry.Calories, entry.ID)
			return nil
		},
	}
}

func findRecipe(arg string) (recipe.Recipe, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("recipe id must be a number: %q", arg)
	}
	r, ok := recipe.ByID(id)
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("no recipe with id %d", id)
	}
	return r, nil
}
