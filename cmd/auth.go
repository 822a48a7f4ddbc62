package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/app"
	"github.com/spanalyzer/spanalyzer/internal/session"
	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with Microsoft Graph",
	Long:  `Provides subcommands to sign in with a device code, check the current session, and log out.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in using the device code flow",
	Long: `Starts a device code sign-in. You will be shown a URL and a short code;
open the URL in any browser, enter the code, and approve the requested
permissions. The next spanalyzer command you run completes the login.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Load(cmd)
		if err != nil {
			return err
		}
		return authLoginLogic(a)
	},
}

func authLoginLogic(a *app.App) error {
	if a.Config.Token.AccessToken != "" {
		a.Printer.Success("You are already logged in. Run 'spanalyzer auth logout' first to switch accounts.")
		return nil
	}

	pending, err := a.Sessions.Load()
	if err != nil {
		return fmt.Errorf("checking for pending login: %w", err)
	}
	if pending != nil {
		a.Printer.Success("A login attempt is already pending.")
		a.Printer.PendingAuth(pending.VerificationURI, pending.UserCode)
		return nil
	}

	dcr, err := graph.InitiateDeviceCodeFlow(a.Config.ClientID, a.Config.TenantID)
	if err != nil {
		return fmt.Errorf("starting device code flow: %w", err)
	}

	state := &session.AuthState{
		DeviceCode:      dcr.DeviceCode,
		UserCode:        dcr.UserCode,
		VerificationURI: dcr.VerificationURI,
		Interval:        dcr.Interval,
		ExpiresAt:       time.Now().Add(time.Duration(dcr.ExpiresIn) * time.Second),
	}
	if err := a.Sessions.Save(state); err != nil {
		return fmt.Errorf("saving auth state: %w", err)
	}

	a.Printer.PendingAuth(dcr.VerificationURI, dcr.UserCode)
	a.Printer.Success("The code expires in about %d minutes. Run any spanalyzer command afterwards to finish signing in.", dcr.ExpiresIn/60)
	return nil
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			if errors.Is(err, app.ErrLoginPending) {
				fmt.Println(err.Error())
				return nil
			}
			if errors.Is(err, graph.ErrReauthRequired) {
				fmt.Println("You are not logged in. Run 'spanalyzer auth login'.")
				return nil
			}
			return fmt.Errorf("checking authentication status: %w", err)
		}
		return authStatusLogic(a, cmd)
	},
}

func authStatusLogic(a *app.App, cmd *cobra.Command) error {
	user, err := a.SDK.GetMe(cmd.Context())
	if err != nil {
		return fmt.Errorf("retrieving user information: %w", err)
	}
	a.Printer.User(user)
	return nil
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify access to the Graph endpoints the analyzer depends on",
	Long: `Calls each Graph endpoint the crawl uses and reports which ones this
account can reach. Useful when analyze comes back empty or with
permission errors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			return err
		}
		return authCheckLogic(a, cmd)
	},
}

func authCheckLogic(a *app.App, cmd *cobra.Command) error {
	ctx := cmd.Context()
	const checks = 4
	failures := 0

	a.Printer.Success("Checking Microsoft Graph access:")

	user, err := a.SDK.GetMe(ctx)
	a.Printer.Check("signed-in user", user.DisplayName, err)
	if err != nil {
		failures++
	}

	root, err := a.SDK.GetSite(ctx, "root")
	a.Printer.Check("root site", root.DisplayName, err)
	if err != nil {
		failures++
	}

	sites, err := a.SDK.DiscoverSites(ctx)
	a.Printer.Check("site discovery", fmt.Sprintf("%d site(s)", len(sites)), err)
	if err != nil {
		failures++
	}

	libraries, err := a.SDK.ListLibraries(ctx, "root")
	a.Printer.Check("document libraries", fmt.Sprintf("%d library(ies)", len(libraries)), err)
	if err != nil {
		failures++
	}

	if failures > 0 {
		a.Printer.Success("Failures usually mean Sites.Read.All was not granted to the app registration, or admin consent is missing.")
		return fmt.Errorf("%d of %d access checks failed", failures, checks)
	}
	a.Printer.Success("All access checks passed.")
	return nil
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored token and any pending login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Load(cmd)
		if err != nil {
			return err
		}
		if err := a.Logout(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		a.Printer.Success("You have been logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authCheckCmd)
	authCmd.AddCommand(authLogoutCmd)
}
