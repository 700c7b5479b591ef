package account

import (
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/auth"
	"github.com/assisitant-dever/docgen/internal/cli"
)

// NewCmd instantiates and returns the account command.
func NewCmd(client *api.Client, credentials auth.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the signed-in account",
	}
	cmd.AddCommand(newLoginCmd(client))
	cmd.AddCommand(newRegisterCmd(client))
	cmd.AddCommand(newLogoutCmd(client))
	cmd.AddCommand(newWhoamiCmd(credentials))
	return cmd
}

func newLoginCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Username string
	}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := cli.QueryUserCredentials(opts.Username)
			if err != nil {
				return err
			}
			session, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cli.Notification("Signed in as %s\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username to sign in with")
	return cmd
}

func newRegisterCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Username string
	}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := cli.QueryUserCredentials(opts.Username)
			if err != nil {
				return err
			}
			session, err := client.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cli.Notification("Registered and signed in as %s\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username to register")
	return cmd
}

func newLogoutCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Logout(); err != nil {
				return err
			}
			cli.Notification("Signed out\n")
			return nil
		},
	}
}

func newWhoamiCmd(credentials auth.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := credentials.Get()
			if err != nil {
				return err
			}
			if session == nil {
				cli.Notification("Not signed in\n")
				return nil
			}
			cli.Notification("Signed in as %s\n", session.Username)
			return nil
		},
	}
}
