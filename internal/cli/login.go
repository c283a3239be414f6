package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var accessToken, refreshToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a credential pair for the API",
		Long: `Store a credential pair issued by the auth service. The access token may be
omitted, in which case one is obtained with the refresh token on the first request.

Examples:
  portfolioctl login --access-token <jwt> --refresh-token <token>
  portfolioctl login --refresh-token <token>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refreshToken == "" {
				return errors.New("--refresh-token is required")
			}
			client, store, err := opts.sessionClient(cmd)
			if err != nil {
				return err
			}
			client.Login(accessToken, refreshToken)

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"result":           "logged in",
					"origin":           opts.apiURL,
					"credentials_file": store.Path(),
				})
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", opts.apiURL)
			cmd.Printf("Credentials saved to %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Access token (JWT)")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials and end the session on the auth service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := opts.sessionClient(cmd)
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				// Local credentials are already gone
				warnLabel.Fprintf(cmd.ErrOrStderr(), "Auth service logout failed: %v\n", err)
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", opts.apiURL)
			return nil
		},
	}
}
