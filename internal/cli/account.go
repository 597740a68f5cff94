package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := app.remote()
			if err != nil {
				return err
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			resp, err := remote.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			role := "Client"
			if resp.User.IsAdmin() {
				role = "Admin"
			}
			printf(cmd.OutOrStdout(), "signed in as %s (%s)\n", resp.User.Email, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := app.remote()
			if err != nil {
				return err
			}
			if err := remote.Logout(); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "signed out\n")
			return nil
		},
	}
}

func newProfileCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := app.remote()
			if err != nil {
				return err
			}
			if remote.Session().Token() == "" {
				return errors.New("not signed in, run techstorectl login")
			}
			user, err := remote.Me(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
}
