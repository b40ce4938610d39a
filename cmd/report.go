package cmd

import (
	"context"
	"fmt"
	"time"

	"shopclock/timecalc"

	"github.com/spf13/cobra"
)

var (
	reportTechnician string
	reportWeek       string
	reportStart      string
	reportEnd        string
	reportAll        bool
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show a technician's hours for one week",
	Long: `Show the hours a technician worked on each day of a week, the week total and the
entries behind it. Shifts still in progress are not counted.

--week takes any day as YYYY-MM-DD; the week is the 7 days starting on that day.
Without it the current week is shown, starting on the configured week_start_day.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			loc := a.svc.Location()
			weekStart := timecalc.StartOfWeek(time.Now().In(loc), a.cfg.WeekStart())
			if reportWeek != "" {
				d, err := timecalc.ParseDay(reportWeek, loc)
				if err != nil {
					return fmt.Errorf("--week must be YYYY-MM-DD: %w", err)
				}
				weekStart = d
			}

			summary, err := a.svc.WeeklySummary(ctx, reportTechnician, weekStart)
			if err != nil {
				return err
			}
			renderWeeklySummary(cmd.OutOrStdout(), summary, loc)
			return nil
		})
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "List entries clocked in between two days",
	Long: `List the entries of every technician whose clock-in falls between --from and --to,
both days included. With --technician only that technician's entries are listed, and
--all lists everything ever recorded for them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			loc := a.svc.Location()

			if reportAll {
				if reportTechnician == "" {
					return fmt.Errorf("--all needs --technician")
				}
				entries, err := a.svc.EntriesForTechnician(ctx, reportTechnician)
				if err != nil {
					return err
				}
				renderEntries(cmd.OutOrStdout(), entries, loc)
				return nil
			}

			start, err := timecalc.ParseDay(reportStart, loc)
			if err != nil {
				return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
			}
			end, err := timecalc.ParseDay(reportEnd, loc)
			if err != nil {
				return fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to is before --from")
			}

			entries, err := a.svc.EntriesInRange(ctx, start, timecalc.EndOfDay(end))
			if err != nil {
				return err
			}
			if reportTechnician != "" {
				filtered := entries[:0]
				for _, e := range entries {
					if e.TechnicianID == reportTechnician {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			renderEntries(cmd.OutOrStdout(), entries, loc)
			return nil
		})
	},
}

func init() {
	weekCmd.Flags().StringVarP(&reportTechnician, "technician", "t", "", "technician id")
	weekCmd.Flags().StringVar(&reportWeek, "week", "", "first day of the week, YYYY-MM-DD")
	weekCmd.MarkFlagRequired("technician")

	rangeCmd.Flags().StringVarP(&reportTechnician, "technician", "t", "", "only this technician")
	rangeCmd.Flags().StringVar(&reportStart, "from", "", "first day, YYYY-MM-DD")
	rangeCmd.Flags().StringVar(&reportEnd, "to", "", "last day, YYYY-MM-DD")
	rangeCmd.Flags().BoolVar(&reportAll, "all", false, "list every entry of --technician")
	rangeCmd.MarkFlagsRequiredTogether("from", "to")
}
