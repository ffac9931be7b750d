package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nutrilens/pkg/errors"
)

func newRegisterCommand(ctx *appContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.SignUp(cmd.Context(), args[0], args[1], name); err != nil {
				if errors.Is(err, errors.ErrAccountExistsUnverified) {
					return fmt.Errorf("this email is already registered but not yet verified, check your inbox")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered. Check your email to confirm the account before signing in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newLoginCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and sync the meal log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.SignIn(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			acct := mgr.Account()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", acct.Email)
			return nil
		},
	}
}

func newLogoutCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			mgr.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			acct := mgr.Account()
			if acct == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in, meals are kept locally.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", acct.Email, acct.ID)
			return nil
		},
	}
}
