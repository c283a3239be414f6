package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newRequestCmd(opts *options) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send an authenticated request to the API and print the response body",
		Example: `  portfolioctl request GET /api/v1/portfolio
  portfolioctl request PUT /api/v1/admin/portfolio --data '{"title":"Engineer"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := opts.sessionClient(cmd)
			if err != nil {
				return err
			}

			var body []byte
			header := http.Header{"Accept": {"application/json"}}
			if data != "" {
				body = []byte(data)
				header.Set("Content-Type", "application/json")
			}
			resp, err := client.Request(cmd.Context(), strings.ToUpper(args[0]), args[1], header, body)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if resp.StatusCode >= http.StatusBadRequest {
				return fmt.Errorf("request failed: %s", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}
