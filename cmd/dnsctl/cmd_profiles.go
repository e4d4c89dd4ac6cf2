package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// newCmdProfiles returns a command that lists the profiles saved for
// the selected interface.
func newCmdProfiles() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List saved DNS profiles for an interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := startup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range snap.Profiles {
				marker := " "
				if snap.SelectedProfile != nil && snap.SelectedProfile.Name == p.Name {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-20s %s%s\n", marker, p.Name, p.Mode, profileSummary(p))
			}
			return nil
		},
	}
}

func profileSummary(p domain.Profile) string {
	if p.Mode != domain.ModeManual {
		return ""
	}
	s := ""
	if p.IPv4.Enabled {
		s += fmt.Sprintf("  ipv4=%v", p.IPv4.Addresses())
		if p.IPv4.Doh.Enabled {
			s += " +doh"
		}
	}
	if p.IPv6.Enabled {
		s += fmt.Sprintf("  ipv6=%v", p.IPv6.Addresses())
		if p.IPv6.Doh.Enabled {
			s += " +doh"
		}
	}
	return s
}

// newCmdCreate returns a command that creates a profile in the default
// automatic state and persists the store.
func newCmdCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new DNS profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if _, err := a.orc.CreateProfile(args[0]); err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %q created\n", args[0])
			return nil
		},
	}
}

// newCmdDelete returns a command that deletes a profile and persists
// the store.
func newCmdDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a DNS profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if _, err := a.orc.DeleteProfile(args[0]); err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %q deleted\n", args[0])
			return nil
		},
	}
}

// newCmdRename returns a command that renames a profile and persists
// the store.
func newCmdRename() *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a DNS profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if _, err := a.orc.RenameProfile(args[0], args[1]); err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %q renamed to %q\n", args[0], args[1])
			return nil
		},
	}
}

// newCmdSelect returns a command that marks a profile as the
// interface's current one and persists the selection.
func newCmdSelect() *cobra.Command {
	return &cobra.Command{
		Use:   "select NAME",
		Short: "Select the current profile for an interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if _, err := a.orc.SelectProfile(args[0]); err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %q selected\n", args[0])
			return nil
		},
	}
}
