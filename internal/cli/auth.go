package cli

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/config"
	"github.com/okian/eventsphere/internal/domain/model"
)

// EnvPassword supplies the login password without putting it on the command line.
const EnvPassword = config.EnvPrefix + "PASSWORD"

type loginResult struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"accessToken"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		Long: `Sign in and print an access token.

The password is read from ` + EnvPassword + ` or, with --password-stdin,
from the first line of stdin. Export the printed token as
` + config.EnvPrefix + `ACCESS_TOKEN to reuse it in later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				password := os.Getenv(EnvPassword)
				if passwordStdin {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return usagef("no password on stdin")
					}
					password = strings.TrimRight(line, "\r\n")
				}
				if strings.TrimSpace(email) == "" || password == "" {
					return usagef("--email and a password are required")
				}

				sess := c.svc.Session()
				user, err := sess.Login(ctx, email, password)
				if err != nil {
					return err
				}
				res := loginResult{User: user, AccessToken: sess.AccessToken()}
				if exp := sess.Expiry(); !exp.IsZero() {
					res.ExpiresAt = &exp
				}
				return c.out.Success(res, renderMessage("Signed in as %s\n%s", user.Name, res.AccessToken))
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if !c.svc.Session().IsAuthenticated() {
					return c.out.Success(map[string]bool{"loggedOut": false}, renderMessage("Not signed in"))
				}
				if err := c.svc.Session().Teardown(ctx); err != nil {
					return err
				}
				return c.out.Success(map[string]bool{"loggedOut": true}, renderMessage("Signed out"))
			})
		},
	}
}
