package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haukened/dnsctl/internal/dns/domain"
	"github.com/haukened/dnsctl/internal/dns/services/orchestrator"
)

// newCmdApply returns a command that applies the selected (or named)
// profile to the selected interface.
func newCmdApply() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [NAME]",
		Short: "Apply a DNS profile to an interface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if _, err := a.orc.SelectProfile(args[0]); err != nil {
					return err
				}
			}

			snap, err := a.orc.Apply(cmd.Context())
			if err != nil {
				var verrs domain.ValidationErrors
				if errors.As(err, &verrs) {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, "profile is invalid, nothing was changed:")
					for _, v := range verrs {
						fmt.Fprintf(out, "  - %s\n", v.Error())
					}
					return fmt.Errorf("%d validation error(s)", len(verrs))
				}
				return err
			}
			renderResult(cmd.OutOrStdout(), snap)
			if snap.LastResult != nil && snap.LastResult.Outcome == domain.OutcomeFailed {
				return fmt.Errorf("apply failed")
			}
			return nil
		},
	}
}

// newCmdReset returns a command that restores an interface to
// automatic DNS without deleting its profiles.
func newCmdReset() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset an interface to automatic (DHCP) DNS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			snap, err := a.orc.Reset(cmd.Context())
			if err != nil {
				return err
			}
			renderResult(cmd.OutOrStdout(), snap)
			if snap.LastResult != nil && snap.LastResult.Outcome == domain.OutcomeFailed {
				return fmt.Errorf("reset failed")
			}
			return nil
		},
	}
}

// newCmdSave returns a command that persists the store without
// applying anything.
func newCmdSave() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist profiles without applying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := startup(cmd)
			if err != nil {
				return err
			}
			if _, err := a.orc.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "profiles saved")
			return nil
		},
	}
}

func renderResult(out io.Writer, snap orchestrator.Snapshot) {
	result := snap.LastResult
	if result == nil {
		return
	}
	fmt.Fprintf(out, "Outcome: %s\n", result.Outcome)
	for _, step := range result.Steps {
		status := "ok"
		if !step.Applied {
			status = "failed"
			if step.Err != "" {
				status = "failed: " + step.Err
			}
		}
		intent := "automatic"
		if len(step.Intent) > 0 {
			intent = fmt.Sprintf("%v", step.Intent)
		}
		fmt.Fprintf(out, "  %-4s -> %-40s %s\n", step.Family, intent, status)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, w := range snap.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}
