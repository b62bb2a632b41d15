package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KenLuoph/Gemini-Hackathon/internal/history"
	"github.com/KenLuoph/Gemini-Hackathon/internal/tui"
)

func getCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:          "get <plan-id>",
		Short:        "Fetch a plan by id",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			if local {
				p, err := history.NewStore(storeDB).GetPlan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPlanSummary(p))
				return nil
			}

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			p, err := buildClient(cfg).GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPlanSummary(p))
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "read from local history instead of the backend")
	return cmd
}
