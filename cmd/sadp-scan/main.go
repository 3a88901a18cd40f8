// Sadp-scan is a thin harness around the SADP engine.
//
// It enumerates the host's network interfaces, broadcasts an inquiry frame
// on one of them and prints the devices that answer. Raw link-layer sockets
// need elevated privileges, so the tool is normally run as root.
//
// Usage:
//
//	sadp-scan interfaces
//	sadp-scan scan [--interface eth0] [--window 5]
//
// See 'sadp-scan --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MatrixEditor/hiktools/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sadp-scan",
	Short: "SADP link-layer device scanner",
	Long: `A scanner for the SADP discovery protocol spoken by networked
security cameras.

Frames are exchanged as raw Ethernet broadcasts (EtherType 0x8033), so no
IP connectivity to the devices is required - only a shared layer-2 segment
and the privilege to open raw sockets.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run a scan when no subcommand is provided.
		return runScan(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sadp-scan %s\n", version.Full())
	},
}
