package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KenLuoph/Gemini-Hackathon/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int
	var alertsFor string
	var prune int
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List locally saved plans and alerts",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()
			store := history.NewStore(storeDB)

			if prune > 0 {
				if err := store.Prune(cmd.Context(), prune); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned history to the %d most recent plans.\n", prune)
			}

			if alertsFor != "" {
				alerts, err := store.RecentAlerts(cmd.Context(), alertsFor, limit)
				if err != nil {
					return err
				}
				if len(alerts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No alerts recorded for", alertsFor)
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RECEIVED\tSEVERITY\tSOURCE\tMESSAGE")
				for _, a := range alerts {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						a.ReceivedAt.Format("2006-01-02 15:04"), a.Severity, a.Source, a.Message)
				}
				return w.Flush()
			}

			records, err := store.ListPlans(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans saved yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PLAN\tNAME\tSTATUS\tBUDGET\tACTIVITIES\tSAVED")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
					rec.PlanID, rec.Name, rec.Status, rec.TotalBudget, rec.ActivityCount,
					rec.SavedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to list")
	cmd.Flags().StringVar(&alertsFor, "alerts", "", "list alerts for the given plan id")
	cmd.Flags().IntVar(&prune, "prune", 0, "keep only the N most recent plans")
	return cmd
}
