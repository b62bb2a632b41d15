package main

import (
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KenLuoph/Gemini-Hackathon/internal/logging"
	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
	"github.com/KenLuoph/Gemini-Hackathon/internal/tui"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "monitor <plan-id>",
		Short:        "Watch a confirmed plan for live alerts and updates",
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

			// The view owns the terminal, so logs go to a file.
			logging.InitFile(filepath.Join(workDir, ".tripscout", "tripscout.log"), debug)

			sess, channel := buildSession(cfg, historyStore(storeDB))
			defer channel.Dispose()

			sess.LoadPlan(cmd.Context(), args[0])
			snap := sess.Snapshot()
			if snap.ErrorMessage != "" {
				return errors.New(snap.ErrorMessage)
			}
			if snap.Plan == nil {
				return errors.New("plan not found")
			}

			switch snap.Plan.Status {
			case plan.StatusVerified:
				sess.ConfirmPlan(cmd.Context())
				if snap = sess.Snapshot(); snap.ErrorMessage != "" {
					return errors.New(snap.ErrorMessage)
				}
			case plan.StatusActive, plan.StatusMonitoring:
				sess.StartMonitoring()
			default:
				return errors.New("plan must be verified or active before monitoring")
			}

			program := tea.NewProgram(tui.NewMonitor(sess), tea.WithContext(cmd.Context()))
			_, err = program.Run()
			return err
		},
	}
	return cmd
}
