package main

import (
	"github.com/spf13/cobra"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

var rootCmd = &cobra.Command{
	Use:   "investagent",
	Short: "Twice-daily investment briefing pipeline",
	Long: `investagent locates today's video in the slot playlist, extracts its
transcript, summarizes it into an investment briefing, delivers undelivered
briefings to Telegram, and optionally produces a video script through the
notebook tool.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run [AM|PM]",
	Short: "Run the full briefing chain for one slot (default AM)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := slotArg(args)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		skipProducer, _ := cmd.Flags().GetBool("skip-producer")

		return newApplication().RunBriefing(cmd.Context(), slot, force, skipProducer)
	},
}

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Deliver today's undelivered reports to Telegram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApplication().RunDelivery(cmd.Context())
	},
}

var produceCmd = &cobra.Command{
	Use:   "produce [AM|PM]",
	Short: "Produce the video script for today's report (default AM)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := slotArg(args)
		if err != nil {
			return err
		}

		return newApplication().RunProduce(cmd.Context(), slot)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the briefing chain at the configured daily times",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		skipProducer, _ := cmd.Flags().GetBool("skip-producer")
		return newApplication().RunSchedule(cmd.Context(), skipProducer)
	},
}

func slotArg(args []string) (domain.Slot, error) {
	value := ""
	if len(args) > 0 {
		value = args[0]
	}
	return domain.ParseSlot(value)
}

func init() {
	runCmd.Flags().Bool("force", false, "regenerate the report even if today's already exists")
	runCmd.Flags().Bool("skip-producer", false, "skip the notebook script production step")
	scheduleCmd.Flags().Bool("skip-producer", false, "skip the notebook script production step")

	rootCmd.AddCommand(runCmd, deliverCmd, produceCmd, scheduleCmd)
}
