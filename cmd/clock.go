package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"shopclock/timetrack"

	"github.com/spf13/cobra"
)

var (
	clockTechnician string
	clockName       string
	clockNotes      string
	clockBreak      int
	clockRepairs    string
)

var clockInCmd = &cobra.Command{
	Use:   "clock-in",
	Short: "Start a shift for a technician",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runClockIn(ctx, cmd.OutOrStdout(), a, clockTechnician, a.technicianName(clockTechnician, clockName), clockNotes)
		})
	},
}

var clockOutCmd = &cobra.Command{
	Use:   "clock-out",
	Short: "End a technician's active shift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := timetrack.ClockOutInput{
			Notes:     clockNotes,
			RepairIDs: splitList(clockRepairs),
		}
		if cmd.Flags().Changed("break") {
			in.BreakMinutes = &clockBreak
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runClockOut(ctx, cmd.OutOrStdout(), a, clockTechnician, a.technicianName(clockTechnician, clockName), in)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a technician is clocked in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runStatus(ctx, cmd.OutOrStdout(), a, clockTechnician)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{clockInCmd, clockOutCmd, statusCmd} {
		c.Flags().StringVarP(&clockTechnician, "technician", "t", "", "technician id")
		c.MarkFlagRequired("technician")
	}
	for _, c := range []*cobra.Command{clockInCmd, clockOutCmd} {
		c.Flags().StringVar(&clockName, "name", "", "technician display name (defaults to the configured user or the id)")
		c.Flags().StringVar(&clockNotes, "notes", "", "notes for the entry")
	}
	clockOutCmd.Flags().IntVar(&clockBreak, "break", 0, "break taken during the shift, in minutes")
	clockOutCmd.Flags().StringVar(&clockRepairs, "repairs", "", "comma-separated repair order ids worked on")
}

func runClockIn(ctx context.Context, w io.Writer, a *app, techID, name, notes string) error {
	entry, err := a.svc.ClockIn(ctx, techID, name, notes)
	if errors.Is(err, timetrack.ErrAlreadyClockedIn) {
		return fmt.Errorf("%s is already clocked in", name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Clocked in %s at %s\n", name, formatTime(&entry.ClockInTime, a.svc.Location()))
	return nil
}

func runClockOut(ctx context.Context, w io.Writer, a *app, techID, name string, in timetrack.ClockOutInput) error {
	entry, err := a.svc.ClockOut(ctx, techID, name, in)
	if errors.Is(err, timetrack.ErrNoActiveEntry) {
		return fmt.Errorf("%s is not clocked in", name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Clocked out %s at %s after %s hours\n",
		name, formatTime(entry.ClockOutTime, a.svc.Location()), formatHours(entry.TotalHours))
	return nil
}

func runStatus(ctx context.Context, w io.Writer, a *app, techID string) error {
	entry, err := a.svc.ActiveEntry(ctx, techID)
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Fprintf(w, "%s is not clocked in\n", techID)
		return nil
	}
	renderEntry(w, entry, a.svc.Location())
	return nil
}

// technicianName prefers an explicit name, then the configured user's full name.
func (a *app) technicianName(techID, name string) string {
	if name != "" {
		return name
	}
	for i := range a.cfg.Users {
		if a.cfg.Users[i].ID == techID {
			return a.cfg.Users[i].DisplayName()
		}
	}
	return techID
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
