package main

import (
	"fmt"

	"coachhub/config"
	"coachhub/database"
	"coachhub/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coachctl",
	Short: "Operator tools for the coaching backend",
	Long:  "Seed demo data and poke background jobs against the configured MongoDB and Redis",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig()
		utils.GetLogger()
		if err := database.InitDB(); err != nil {
			return fmt.Errorf("database unavailable: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return database.Disconnect(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(remindCmd)
}
