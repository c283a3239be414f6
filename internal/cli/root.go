package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/spf13/cobra"
)

// ErrAlreadyHandled means the command has already reported the failure.
var ErrAlreadyHandled = errors.New("already handled")

var (
	okLabel    = color.New(color.FgGreen)
	warnLabel  = color.New(color.FgYellow)
	errorLabel = color.New(color.FgRed)
)

// options are the persistent flags shared by every command.
type options struct {
	apiURL          string
	authURL         string
	clientID        string
	credentialsFile string
	exchangeMode    string
	renewalTimeout  time.Duration
	jsonOutput      bool
}

// NewRootCmd builds portfolioctl. Flag defaults come from cfg.
func NewRootCmd(cfg config.ClientConfig) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "portfolioctl [command] [flags]",
		Short: "portfolioctl - manage the portfolio site from the command line",
		Long: `portfolioctl calls the portfolio API with a stored credential pair. Expired access
tokens are renewed with the refresh token automatically; when the refresh token is
rejected the stored credentials are cleared and you need to log in again.

Examples:
  # Store a credential pair issued by the auth service
  portfolioctl login --access-token <jwt> --refresh-token <token>

  # Show the stored session
  portfolioctl status

  # List articles
  portfolioctl articles list --page 2`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", cfg.GetAPIURL(), "Portfolio API base URL")
	flags.StringVar(&opts.authURL, "auth-url", cfg.GetAuthURL(), "Auth service base URL (the issuer in oauth2 mode)")
	flags.StringVar(&opts.clientID, "client-id", cfg.GetClientID(), "OAuth2 client ID")
	flags.StringVar(&opts.credentialsFile, "credentials-file", cfg.GetCredentialsFile(), "Credentials file (defaults to the user config directory)")
	flags.StringVar(&opts.exchangeMode, "exchange-mode", cfg.GetExchangeMode(), "Refresh endpoint flavour: json or oauth2")
	flags.DurationVar(&opts.renewalTimeout, "renewal-timeout", cfg.GetRenewalTimeout(), "Maximum time a token renewal may take")
	flags.BoolVarP(&opts.jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newArticlesCmd(opts),
		newProjectsCmd(opts),
		newProfileCmd(opts),
		newRequestCmd(opts),
	)
	return rootCmd
}

// Execute runs portfolioctl and returns the process exit code.
func Execute(ctx context.Context, cfg config.ClientConfig) int {
	rootCmd := NewRootCmd(cfg)
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrAlreadyHandled) {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
