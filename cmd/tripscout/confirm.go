package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
	"github.com/KenLuoph/Gemini-Hackathon/internal/tui"
)

func confirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "confirm <plan-id>",
		Short:        "Confirm a verified plan and start backend monitoring",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()
			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}

			sess, channel := buildSession(cfg, historyStore(storeDB))
			defer channel.Dispose()

			sess.LoadPlan(cmd.Context(), args[0])
			snap := sess.Snapshot()
			if snap.ErrorMessage != "" {
				return errors.New(snap.ErrorMessage)
			}

			sess.ConfirmPlan(cmd.Context())
			snap = sess.Snapshot()
			if snap.ErrorMessage != "" {
				return errors.New(snap.ErrorMessage)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPlanSummary(snap.Plan))
			if snap.Plan != nil && snap.Plan.Status == plan.StatusActive {
				fmt.Fprintln(cmd.OutOrStdout(), "Monitoring started. Run 'tripscout monitor", args[0]+"' to watch for changes.")
			}
			return nil
		},
	}
	return cmd
}
