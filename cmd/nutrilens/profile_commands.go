package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nutrilens/domain/profile"
)

func newProfileCommand(ctx *appContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the user profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd, mgr.Profile())
			return nil
		},
	}

	profileCmd.AddCommand(newProfileSetCommand(ctx))
	return profileCmd
}

func newProfileSetCommand(ctx *appContext) *cobra.Command {
	var (
		name          string
		weight        float64
		goalWeight    float64
		dailyCalories int
		height        float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			updated := mgr.UpdateProfile(cmd.Context(), func(p *profile.Profile) {
				if cmd.Flags().Changed("name") {
					p.Name = name
				}
				if cmd.Flags().Changed("weight") {
					p.Weight = weight
				}
				if cmd.Flags().Changed("goal-weight") {
					p.GoalWeight = goalWeight
				}
				if cmd.Flags().Changed("daily-calories") {
					p.DailyCalories = dailyCalories
				}
				if cmd.Flags().Changed("height") {
					p.Height = height
				}
			})
			printProfile(cmd, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Current weight in kg")
	cmd.Flags().Float64Var(&goalWeight, "goal-weight", 0, "Goal weight in kg")
	cmd.Flags().IntVar(&dailyCalories, "daily-calories", 0, "Daily calorie goal")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in cm")
	return cmd
}

func printProfile(cmd *cobra.Command, p profile.Profile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:           %s\n", p.Name)
	fmt.Fprintf(out, "Weight:         %.1f kg (goal %.1f kg)\n", p.Weight, p.GoalWeight)
	fmt.Fprintf(out, "Height:         %.0f cm\n", p.Height)
	fmt.Fprintf(out, "Daily calories: %d kcal\n", p.DailyCalories)
}
