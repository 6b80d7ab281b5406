package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/auth"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/service"
)

func credentialFlags(cmd *cobra.Command, creds *auth.Credentials) {
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password; may also be specified in POSTBASE_PASSWORD")
	_ = cmd.MarkFlagRequired("email")
}

func passwordFromEnv(creds *auth.Credentials) {
	if creds.Password == "" {
		creds.Password = os.Getenv("POSTBASE_PASSWORD")
	}
}

// redacted strips the secret; it already lives in the session file.
func redacted(s *backend.Session) *backend.Session {
	out := *s
	out.Secret = ""
	return &out
}

func cmdAccount() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the current account and session",
	}

	cmd.AddCommand(cmdAccountCreate())
	cmd.AddCommand(cmdAccountLogin())
	cmd.AddCommand(cmdAccountWhoami())
	cmd.AddCommand(cmdAccountLogout())

	return cmd
}

func cmdAccountCreate() *cobra.Command {
	var creds auth.Credentials

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			passwordFromEnv(&creds)
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				session, err := dm.GetAuth().CreateAccount(ctx, creds)
				if err != nil {
					return err
				}

				statusOk(cmd, "created account %s", creds.Email)
				o := OutputSingle[*backend.Session](cmd)
				o.Emit(redacted(session))
				o.Done()
				return nil
			})
		},
	}

	credentialFlags(cmd, &creds)
	cmd.Flags().StringVar(&creds.Name, "name", "", "display name")

	return cmd
}

func cmdAccountLogin() *cobra.Command {
	var creds auth.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open an email/password session",
		RunE: func(cmd *cobra.Command, args []string) error {
			passwordFromEnv(&creds)
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				session, err := dm.GetAuth().Login(ctx, creds)
				if err != nil {
					return err
				}

				statusOk(cmd, "logged in as %s", creds.Email)
				o := OutputSingle[*backend.Session](cmd)
				o.Emit(redacted(session))
				o.Done()
				return nil
			})
		},
	}

	credentialFlags(cmd, &creds)

	return cmd
}

func cmdAccountWhoami() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				ident, err := dm.GetAuth().GetCurrentUser(ctx)
				if err != nil {
					return err
				}

				o := OutputSingle[*backend.Identity](cmd)
				o.Emit(ident)
				o.Done()
				return nil
			})
		},
	}
}

func cmdAccountLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End every session of the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				if err := dm.GetAuth().Logout(ctx); err != nil {
					return err
				}

				statusOk(cmd, "logged out")
				return nil
			})
		},
	}
}
