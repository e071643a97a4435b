package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "societyctl",
		Short:        "Administrative tasks for the society management service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		createAdminCmd(),
		sweepOverdueCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
