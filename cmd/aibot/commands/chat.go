package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haroonj/Ai-Bot/config"
	"github.com/haroonj/Ai-Bot/core"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		bot, cleanup, err := buildBot(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conversationID := core.NewID()
		fmt.Println("Store support bot. Type 'exit' or 'quit' to leave.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("You: ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				return nil
			}

			reply, _, err := bot.Chat(ctx, conversationID, input)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Println("Bot: sorry, something went wrong. Please try again.")
				logger.Error("chat.turn.error", "error", err.Error())
				continue
			}
			fmt.Println("Bot:", reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
