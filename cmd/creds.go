package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/credstore"
	"github.com/spanalyzer/spanalyzer/internal/ui"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the Azure app registration in the system keyring",
	Long: `Stores the client ID and tenant ID of your own Azure app registration in
the operating system keyring. When no registration is stored, spanalyzer
falls back to the Microsoft Graph PowerShell first-party application.`,
}

var credsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a client ID and tenant ID",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client-id")
		tenantID, _ := cmd.Flags().GetString("tenant-id")
		return credsSetLogic(credstore.New(), ui.Default(), clientID, tenantID)
	},
}

func credsSetLogic(store *credstore.Store, printer *ui.Printer, clientID, tenantID string) error {
	if clientID == "" {
		return errors.New("--client-id is required")
	}
	if !store.Available() {
		return errors.New("no usable system keyring found; set SPANALYZER_CLIENT_ID and SPANALYZER_TENANT_ID in the environment instead")
	}
	if err := store.Save(credstore.Credentials{ClientID: clientID, TenantID: tenantID}); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}
	printer.Success("Credentials stored in the system keyring.")
	return nil
}

var credsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which app registration is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return credsStatusLogic(credstore.New(), ui.Default())
	},
}

func credsStatusLogic(store *credstore.Store, printer *ui.Printer) error {
	creds, err := store.Load()
	if errors.Is(err, credstore.ErrNotFound) {
		printer.Success("No custom app registration stored; the built-in default is in use.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	printer.Success("Client ID: %s", creds.ClientID)
	if creds.TenantID != "" {
		printer.Success("Tenant ID: %s", creds.TenantID)
	}
	return nil
}

var credsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored app registration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return credsDeleteLogic(credstore.New(), ui.Default())
	},
}

func credsDeleteLogic(store *credstore.Store, printer *ui.Printer) error {
	if err := store.Delete(); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	printer.Success("Stored credentials removed.")
	return nil
}

func init() {
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsStatusCmd)
	credsCmd.AddCommand(credsDeleteCmd)

	credsSetCmd.Flags().String("client-id", "", "Application (client) ID of the Azure app registration")
	credsSetCmd.Flags().String("tenant-id", "", "Directory (tenant) ID, or empty for multi-tenant")
}
