package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clearscrub-admin/internal/auth"
	"clearscrub-admin/internal/config"
	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/session"
)

// cliSession es la unica sesion del proceso, respaldada por un archivo local.
type cliSession struct {
	store *session.Store
	slot  *session.FileSlot
}

type rootOptions struct {
	sessionFile string
	backendURL  string
	verbose     bool
}

// unavailableAuthenticator se usa cuando no hay backend configurado.
type unavailableAuthenticator struct{}

func (unavailableAuthenticator) Authenticate(context.Context, string, string) (domain.Identity, error) {
	return domain.Identity{}, fmt.Errorf("%w: AUTH_BACKEND_URL is not set", auth.ErrUnreachable)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var sess *cliSession

	rootCmd := &cobra.Command{
		Use:   "dashctl",
		Short: "Operator CLI for the ClearScrub admin dashboard",
		Long: `dashctl signs an operator in and out of ClearScrub.

The session is kept in a local file and restored on every invocation,
the same way the dashboard keeps it in browser storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sess = s
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "Path of the session file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "Auth backend base URL (overrides AUTH_BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log session transitions")

	current := func() *cliSession { return sess }
	rootCmd.AddCommand(
		loginCmd(current),
		logoutCmd(current),
		whoamiCmd(current),
		statusCmd(current),
	)
	return rootCmd
}

func openSession(ctx context.Context, opts *rootOptions) (*cliSession, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return nil, err
	}

	path := opts.sessionFile
	if path == "" {
		path = cfg.SessionFile
	}
	if path == "" {
		path, err = session.DefaultFilePath()
		if err != nil {
			return nil, fmt.Errorf("resolve session file: %w", err)
		}
	}

	logger := zap.NewNop()
	if opts.verbose {
		logger, _ = zap.NewDevelopment()
	}

	backend := opts.backendURL
	if backend == "" {
		backend = cfg.AuthBackendURL
	}
	var authenticator session.Authenticator = unavailableAuthenticator{}
	if backend != "" {
		authenticator = auth.NewHTTPAuthenticator(backend, cfg.AuthBackendAPIKey, cfg.AuthBackendTimeout, logger)
	}

	slot := session.NewFileSlot(path)
	store := session.NewStore(logger, slot, authenticator, nil)

	restoreCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	store.Restore(restoreCtx)

	return &cliSession{store: store, slot: slot}, nil
}

func loginCmd(current func() *cliSession) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := current().store.SignIn(cmd.Context(), email, password)
			if err != nil {
				return describeSignInError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", identity.Name, identity.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Operator email")
	cmd.Flags().StringVar(&password, "password", "", "Operator password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(current func() *cliSession) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current().store.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func whoamiCmd(current func() *cliSession) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, ok := current().store.CurrentIdentity()
			if !ok {
				return errors.New("not signed in")
			}
			printIdentity(cmd.OutOrStdout(), identity)
			return nil
		},
	}
}

func statusCmd(current func() *cliSession) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the session state and where it is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := current()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state: %s\n", s.store.State())
			fmt.Fprintf(out, "file:  %s\n", s.slot.Path())
			return nil
		},
	}
}

func printIdentity(out io.Writer, identity domain.Identity) {
	fmt.Fprintf(out, "id:      %s\n", identity.ID)
	fmt.Fprintf(out, "name:    %s\n", identity.Name)
	fmt.Fprintf(out, "email:   %s\n", identity.Email)
	if identity.CompanyID != "" {
		fmt.Fprintf(out, "company: %s\n", identity.CompanyID)
	}
}

func describeSignInError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errors.New("invalid credentials")
	case errors.Is(err, auth.ErrRateLimited):
		return errors.New("too many attempts, try again later")
	case auth.Retryable(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("authentication service unavailable, try again: %w", err)
	default:
		return err
	}
}
