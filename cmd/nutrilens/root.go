package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var cacheFlag string
	var deviceFlag string

	ctx := newAppContext(&cacheFlag, &deviceFlag)

	rootCmd := &cobra.Command{
		Use:           "nutrilens",
		Short:         "NutriLens diet tracking CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cacheFlag, "cache", "", "Path to the local state snapshot")
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "Capture device node")

	rootCmd.AddCommand(newRegisterCommand(ctx))
	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newLogoutCommand(ctx))
	rootCmd.AddCommand(newWhoamiCommand(ctx))
	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newMealsCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newRecipesCommand(ctx))
	rootCmd.AddCommand(newProfileCommand(ctx))
	rootCmd.AddCommand(newSummaryCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))

	return rootCmd
}
