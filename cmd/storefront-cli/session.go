package main

import (
	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the signed-in user",
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Resolve --session against the storefront and remember the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			h, err := a.loadSession(ctx)
			if err != nil {
				return err
			}

			u, err := a.sessions.Current(ctx, a.cfg.SessionToken)
			if err != nil {
				return err
			}
			if u == nil {
				a.printf("Not signed in.\n")
				return h.Clear(ctx)
			}
			if err := h.Set(ctx, *u); err != nil {
				return err
			}
			a.printf("Signed in as %s (%s).\n", u.Email, u.Role)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the remembered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadSession(a.context(cmd))
			if err != nil {
				return err
			}
			u := h.Current()
			if u == nil {
				a.printf("Not signed in.\n")
				return nil
			}
			a.printf("%s (%s)\n", u.Email, u.Role)
			if u.IsAdmin() {
				a.printf("Admin tools are available.\n")
			}
			return nil
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the remembered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			if a.cfg.SessionToken != "" {
				if err := a.sessions.Logout(ctx, a.cfg.SessionToken); err != nil {
					a.logger.Printf("server logout: %v", err)
				}
			}
			h, err := a.loadSession(ctx)
			if err != nil {
				return err
			}
			if err := h.Clear(ctx); err != nil {
				return err
			}
			a.printf("Signed out.\n")
			return nil
		},
	}

	cmd.AddCommand(refresh, show, logout)
	return cmd
}
