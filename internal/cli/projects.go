package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-portfolio-session/portfolio"
	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and manage projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(opts),
		newProjectsGetCmd(opts),
		newProjectsDeleteCmd(opts),
	)
	return cmd
}

func newProjectsListCmd(opts *options) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			result, err := client.Projects.List(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTECHNOLOGIES\tFEATURED")
			for _, p := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", p.ID, p.Name, strings.Join(p.Technologies, ","), p.Featured)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPagination(cmd, result.Pagination)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", portfolio.DefaultPageLimit, "Projects per page")
	return cmd
}

func newProjectsGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", args[0], err)
			}
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			project, err := client.Projects.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), project)
			}
			cmd.Printf("%s\n%s\n", project.Name, project.Description)
			if project.GithubURL != "" {
				cmd.Printf("GitHub: %s\n", project.GithubURL)
			}
			if project.LiveURL != "" {
				cmd.Printf("Live: %s\n", project.LiveURL)
			}
			return nil
		},
	}
}

func newProjectsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", args[0], err)
			}
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			if err := client.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", id)
			return nil
		},
	}
}
