package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	version = "0.1.0-dev"
	appName = "dnsctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Per-interface DNS profile manager",
		Long: appName + ` manages named DNS profiles per network interface:
automatic (DHCP) or manual IPv4/IPv6 servers with optional DNS-over-HTTPS,
validated before anything touches the OS, applied with verification and
per-protocol failure reporting.

Configuration comes from DNSCTL_* environment variables; profiles are
stored in a comment-tolerant JSON file under the user config directory.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("interface", "i", "", "interface to operate on (name or adapter GUID); defaults to the first active one")

	cmd.AddCommand(
		newCmdInterfaces(),
		newCmdStatus(),
		newCmdProfiles(),
		newCmdCreate(),
		newCmdDelete(),
		newCmdRename(),
		newCmdSet(),
		newCmdSelect(),
		newCmdApply(),
		newCmdReset(),
		newCmdSave(),
	)
	return cmd
}
