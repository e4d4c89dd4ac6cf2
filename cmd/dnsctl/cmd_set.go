package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// newCmdSet returns a command that edits a profile's fields in place.
// Only flags the user passes change; everything else keeps its stored
// value, so disabled protocols retain their servers for later reuse.
// Edits are saved without validation; validation runs on apply.
func newCmdSet() *cobra.Command {
	var (
		mode          string
		ipv4, ipv6    bool
		v4Primary     string
		v4Secondary   string
		v4DohTemplate string
		v6Primary     string
		v6Secondary   string
		v6DohTemplate string
	)

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Edit a DNS profile's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, snap, err := startup(cmd)
			if err != nil {
				return err
			}
			if snap.SelectedInterface == nil {
				return fmt.Errorf("no interfaces available")
			}

			var profile *domain.Profile
			for i := range snap.Profiles {
				if snap.Profiles[i].Name == args[0] {
					profile = &snap.Profiles[i]
					break
				}
			}
			if profile == nil {
				return fmt.Errorf("profile %q not found", args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("mode") {
				profile.Mode = domain.ParseMode(mode)
			}
			if flags.Changed("ipv4") {
				profile.IPv4.Enabled = ipv4
			}
			if flags.Changed("ipv4-primary") {
				profile.IPv4.Primary = v4Primary
			}
			if flags.Changed("ipv4-secondary") {
				profile.IPv4.Secondary = v4Secondary
			}
			if flags.Changed("ipv4-doh") {
				profile.IPv4.Doh.Enabled = v4DohTemplate != ""
				profile.IPv4.Doh.Template = v4DohTemplate
			}
			if flags.Changed("ipv6") {
				profile.IPv6.Enabled = ipv6
			}
			if flags.Changed("ipv6-primary") {
				profile.IPv6.Primary = v6Primary
			}
			if flags.Changed("ipv6-secondary") {
				profile.IPv6.Secondary = v6Secondary
			}
			if flags.Changed("ipv6-doh") {
				profile.IPv6.Doh.Enabled = v6DohTemplate != ""
				profile.IPv6.Doh.Template = v6DohTemplate
			}

			if _, err := a.orc.UpdateProfile(*profile); err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %q updated\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "DNS mode: automatic or manual")
	cmd.Flags().BoolVar(&ipv4, "ipv4", false, "enable or disable manual IPv4 DNS")
	cmd.Flags().StringVar(&v4Primary, "ipv4-primary", "", "primary IPv4 DNS server")
	cmd.Flags().StringVar(&v4Secondary, "ipv4-secondary", "", "secondary IPv4 DNS server")
	cmd.Flags().StringVar(&v4DohTemplate, "ipv4-doh", "", "DoH template URL for IPv4 (empty disables DoH)")
	cmd.Flags().BoolVar(&ipv6, "ipv6", false, "enable or disable manual IPv6 DNS")
	cmd.Flags().StringVar(&v6Primary, "ipv6-primary", "", "primary IPv6 DNS server")
	cmd.Flags().StringVar(&v6Secondary, "ipv6-secondary", "", "secondary IPv6 DNS server")
	cmd.Flags().StringVar(&v6DohTemplate, "ipv6-doh", "", "DoH template URL for IPv6 (empty disables DoH)")
	return cmd
}
