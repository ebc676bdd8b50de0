package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pawctl",
	Short: "PawMart backend maintenance CLI",
	Long:  "pawctl bundles operational commands for the PawMart backend: seeding demo data, resetting passwords, and repairing invoice counters.",
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(recountInvoicesCmd)
}
