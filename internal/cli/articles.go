package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-portfolio-session/portfolio"
	"github.com/spf13/cobra"
)

func newArticlesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"article"},
		Short:   "List and manage articles",
	}
	cmd.AddCommand(
		newArticlesListCmd(opts),
		newArticlesGetCmd(opts),
		newArticlesCreateCmd(opts),
		newArticlesDeleteCmd(opts),
	)
	return cmd
}

func newArticlesListCmd(opts *options) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			result, err := client.Articles.List(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED")
			for _, a := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", a.ID, a.Slug, a.Title, a.Published)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPagination(cmd, result.Pagination)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", portfolio.DefaultPageLimit, "Articles per page")
	return cmd
}

func newArticlesGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|slug>",
		Short: "Show an article by ID or slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}

			var article *portfolio.Article
			if id, parseErr := uuid.Parse(args[0]); parseErr == nil {
				article, err = client.Articles.Get(cmd.Context(), id)
			} else {
				article, err = client.Articles.GetBySlug(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), article)
			}
			cmd.Printf("%s\n%s\n\n", article.Title, article.Slug)
			if article.Excerpt != "" {
				cmd.Printf("%s\n\n", article.Excerpt)
			}
			cmd.Println(article.Content)
			return nil
		},
	}
}

func newArticlesCreateCmd(opts *options) *cobra.Command {
	var input portfolio.ArticleInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			article, err := client.Articles.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), article)
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Created article %s (%s)\n", article.Slug, article.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Title, "title", "", "Title")
	cmd.Flags().StringVar(&input.Slug, "slug", "", "URL slug")
	cmd.Flags().StringVar(&input.Excerpt, "excerpt", "", "Short summary")
	cmd.Flags().StringVar(&input.Content, "content", "", "Article body")
	cmd.Flags().BoolVar(&input.Published, "published", false, "Publish immediately")
	return cmd
}

func newArticlesDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q: %w", args[0], err)
			}
			client, err := opts.portfolioClient(cmd)
			if err != nil {
				return err
			}
			if err := client.Articles.Delete(cmd.Context(), id); err != nil {
				return err
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Deleted article %s\n", id)
			return nil
		},
	}
}

func printPagination(cmd *cobra.Command, p portfolio.Pagination) {
	if p.TotalPages > 0 {
		cmd.Printf("\nPage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	}
}
