package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kerf",
	Short: "Scripted CAD shape evaluation",
	Long: `kerf evaluates Lisp shape scripts against a geometry kernel and
renders the resulting shape collection as JSON, SVG or mesh statistics.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
