package cli

import (
	"github.com/jrsteele09/go-portfolio-session/internal/utils"
	"github.com/jrsteele09/go-portfolio-session/portfolio"
	"github.com/spf13/cobra"
)

func newProfileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the portfolio profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			profile, err := client.Profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printProfile(cmd, opts, profile)
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(opts))
	return cmd
}

func newProfileUpdateCmd(opts *options) *cobra.Command {
	var name, title, bio, email string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; only the flags given are changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update portfolio.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = utils.Ptr(name)
			}
			if flags.Changed("title") {
				update.Title = utils.Ptr(title)
			}
			if flags.Changed("bio") {
				update.Bio = utils.Ptr(bio)
			}
			if flags.Changed("email") {
				update.Email = utils.Ptr(email)
			}

			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			profile, err := client.Profile.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return printProfile(cmd, opts, profile)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&title, "title", "", "Headline")
	cmd.Flags().StringVar(&bio, "bio", "", "Biography")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	return cmd
}

func printProfile(cmd *cobra.Command, opts *options, profile *portfolio.Profile) error {
	if opts.jsonOutput {
		return printJSON(cmd.OutOrStdout(), profile)
	}
	cmd.Printf("%s - %s\n", profile.Name, profile.Title)
	cmd.Printf("Email: %s\n", profile.Email)
	if profile.Bio != "" {
		cmd.Printf("\n%s\n", profile.Bio)
	}
	return nil
}
