// Package commands implements the aibot CLI.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aibot",
	Short: "Customer support bot for an online store",
	Long: `aibot is a customer support dialogue agent for an online store.
It answers order status and tracking questions, walks customers through
item returns, and answers policy questions from a knowledge base.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; the environment may already be set.
		_ = godotenv.Load()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
