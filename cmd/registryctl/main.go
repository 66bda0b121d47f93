// Command registryctl is the operator CLI: schema migrations, the seed admin
// account and a live view of the audit stream.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "registryctl",
		Short:         "TrustEstate registry operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}
	auditCmd.AddCommand(AuditTailCmd(), AuditListCmd())

	rootCmd.AddCommand(
		MigrateCmd(),
		StatusCmd(),
		SeedAdminCmd(),
		auditCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
