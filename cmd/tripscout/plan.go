package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KenLuoph/Gemini-Hackathon/internal/session"
	"github.com/KenLuoph/Gemini-Hackathon/internal/tui"
)

func planCmd() *cobra.Command {
	var budget float64
	var prefs []string
	var rainSensitive bool
	var diet []string
	cmd := &cobra.Command{
		Use:          "plan <intent>",
		Short:        "Generate a trip plan from a natural-language request",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
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

			opts := session.CreateOptions{
				Preferences:         prefs,
				DietaryRestrictions: diet,
			}
			if cmd.Flags().Changed("budget") {
				opts.BudgetLimit = &budget
			}
			if cmd.Flags().Changed("rain-sensitive") {
				opts.SensitiveToRain = &rainSensitive
			}

			sess.CreatePlan(cmd.Context(), strings.Join(args, " "), opts)

			snap := sess.Snapshot()
			if snap.ErrorMessage != "" {
				return errors.New(snap.ErrorMessage)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPlanSummary(snap.Plan))
			if v := tui.RenderValidation(snap.Validation); v != "" {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&budget, "budget", 0, "total budget limit")
	cmd.Flags().StringArrayVar(&prefs, "pref", nil, "preference tag, repeatable")
	cmd.Flags().BoolVar(&rainSensitive, "rain-sensitive", false, "prefer indoor activities when rain is likely")
	cmd.Flags().StringArrayVar(&diet, "diet", nil, "dietary restriction, repeatable")
	return cmd
}
