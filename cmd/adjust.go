package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"shopclock/timetrack"

	"github.com/spf13/cobra"
)

var (
	adjustBy       string
	adjustReason   string
	adjustClockIn  string
	adjustClockOut string
	adjustBreak    int
	adjustNotes    string
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <entry-id>",
	Short: "Correct a time entry and record why",
	Long: `Correct the clock-in, clock-out or break of a time entry. Every correction is kept
in the entry's adjustment history together with the reason and who made it.

Times accept RFC 3339 or "YYYY-MM-DD HH:MM" in the configured timezone.

Examples:
  shopclock adjust 6f1c... --by "Sam" --clock-out "2026-03-02 17:30" --reason "forgot to clock out"
  shopclock adjust 6f1c... --by "Sam" --break 45 --reason "lunch ran long"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			in, err := adjustmentFromFlags(cmd, a.svc.Location())
			if err != nil {
				return err
			}
			return runAdjust(ctx, cmd.OutOrStdout(), a, args[0], adjustBy, in, adjustReason)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <entry-id>",
	Short: "List the adjustments made to a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			adjustments, err := a.svc.AdjustmentsForEntry(ctx, args[0])
			if err != nil {
				return err
			}
			renderAdjustments(cmd.OutOrStdout(), adjustments, a.svc.Location())
			return nil
		})
	},
}

func init() {
	adjustCmd.Flags().StringVar(&adjustBy, "by", "", "name of the person making the correction")
	adjustCmd.Flags().StringVar(&adjustReason, "reason", "", "why the entry is being corrected")
	adjustCmd.Flags().StringVar(&adjustClockIn, "clock-in", "", "corrected clock-in time")
	adjustCmd.Flags().StringVar(&adjustClockOut, "clock-out", "", "corrected clock-out time")
	adjustCmd.Flags().IntVar(&adjustBreak, "break", 0, "corrected break, in minutes")
	adjustCmd.Flags().StringVar(&adjustNotes, "notes", "", "note appended to the entry")
	adjustCmd.MarkFlagRequired("by")
	adjustCmd.MarkFlagRequired("reason")
}

func adjustmentFromFlags(cmd *cobra.Command, loc *time.Location) (timetrack.AdjustmentInput, error) {
	in := timetrack.AdjustmentInput{Notes: adjustNotes}
	if cmd.Flags().Changed("clock-in") {
		t, err := parseTimeFlag(adjustClockIn, loc)
		if err != nil {
			return in, fmt.Errorf("--clock-in: %w", err)
		}
		in.ClockInTime = &t
	}
	if cmd.Flags().Changed("clock-out") {
		t, err := parseTimeFlag(adjustClockOut, loc)
		if err != nil {
			return in, fmt.Errorf("--clock-out: %w", err)
		}
		in.ClockOutTime = &t
	}
	if cmd.Flags().Changed("break") {
		in.BreakMinutes = &adjustBreak
	}
	return in, nil
}

func runAdjust(ctx context.Context, w io.Writer, a *app, entryID, by string, in timetrack.AdjustmentInput, reason string) error {
	entry, _, err := a.svc.Adjust(ctx, entryID, by, in, reason)
	if errors.Is(err, timetrack.ErrEntryNotFound) {
		return fmt.Errorf("no time entry with id %s", entryID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Entry adjusted.")
	renderEntry(w, entry, a.svc.Location())
	return nil
}

var timeFlagLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseTimeFlag reads a command-line timestamp; layouts without an offset are taken in loc.
func parseTimeFlag(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timeFlagLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q, use RFC 3339 or YYYY-MM-DD HH:MM", s)
}
