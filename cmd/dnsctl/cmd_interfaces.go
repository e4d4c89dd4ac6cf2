package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// newCmdInterfaces returns a command that lists active interfaces.
func newCmdInterfaces() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List active network interfaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := startup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ifc := range snap.Interfaces {
				marker := " "
				if snap.SelectedInterface != nil && snap.SelectedInterface.ID == ifc.ID {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-30s id=%s ipv4=%d ipv6=%d\n",
					marker, ifc.DisplayName(), ifc.ID, len(ifc.IPv4Addrs), len(ifc.IPv6Addrs))
			}
			return nil
		},
	}
}

// newCmdStatus returns a command that shows the selected interface's
// observed DNS state and its selected profile.
func newCmdStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current DNS state for an interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := startup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snap.SelectedInterface == nil {
				fmt.Fprintln(out, "no interfaces available")
				return nil
			}
			fmt.Fprintf(out, "Interface: %s\n", snap.SelectedInterface.DisplayName())
			if snap.SelectedProfile != nil {
				fmt.Fprintf(out, "Profile:   %s (%s)\n", snap.SelectedProfile.Name, snap.SelectedProfile.Mode)
			}
			if snap.CurrentDNS != nil {
				fmt.Fprintf(out, "IPv4 DNS:  %s\n", snap.CurrentDNS.Display(domain.FamilyIPv4))
				fmt.Fprintf(out, "IPv6 DNS:  %s\n", snap.CurrentDNS.Display(domain.FamilyIPv6))
			}
			for _, w := range snap.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}
}
