package cli

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/spf13/cobra"
)

// sessionStatus describes the stored credentials. Nothing is verified: the API and auth
// service stay the authority on whether the tokens are still good.
type sessionStatus struct {
	Origin          string     `json:"origin"`
	CredentialsFile string     `json:"credentials_file"`
	LoggedIn        bool       `json:"logged_in"`
	Subject         string     `json:"subject,omitempty"`
	Role            string     `json:"role,omitempty"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	AccessExpired   bool       `json:"access_expired"`
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.store()
			if err != nil {
				return err
			}
			status := describe(store.Pair(), time.Now())
			status.Origin = credentials.Origin(opts.apiURL)
			status.CredentialsFile = store.Path()

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), status)
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

func describe(pair credentials.Pair, now time.Time) sessionStatus {
	status := sessionStatus{LoggedIn: pair.RefreshToken != ""}
	if pair.AccessToken == "" {
		status.AccessExpired = true
		return status
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, claims); err != nil {
		// Opaque access tokens carry no expiry we can read
		return status
	}
	status.Subject, _ = claims.GetSubject()
	status.Role, _ = claims["role"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt := exp.Time
		status.AccessExpiresAt = &expiresAt
		status.AccessExpired = !now.Before(expiresAt)
	}
	return status
}

func printStatus(cmd *cobra.Command, status sessionStatus) {
	out := cmd.OutOrStdout()
	cmd.Printf("API: %s\n", status.Origin)
	cmd.Printf("Credentials: %s\n", status.CredentialsFile)

	if !status.LoggedIn {
		errorLabel.Fprintln(out, "Logged out")
		cmd.Println(`Run "portfolioctl login" to sign in.`)
		return
	}
	okLabel.Fprintln(out, "Logged in")
	if status.Subject != "" {
		cmd.Printf("Subject: %s (%s)\n", status.Subject, status.Role)
	}
	switch {
	case status.AccessExpiresAt == nil && status.AccessExpired:
		warnLabel.Fprintln(out, "No access token, one will be requested on the next call")
	case status.AccessExpiresAt == nil:
		cmd.Println("Access token expiry unknown")
	case status.AccessExpired:
		warnLabel.Fprintf(out, "Access token expired at %s, it will be renewed on the next call\n",
			status.AccessExpiresAt.Local().Format("2006-01-02 15:04:05 MST"))
	default:
		cmd.Printf("Access token valid until %s\n", status.AccessExpiresAt.Local().Format("2006-01-02 15:04:05 MST"))
	}
}
