package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat log commands",
	}

	cmd.AddCommand(newChatListCmd())
	cmd.AddCommand(newChatPostCmd())

	return cmd
}

func newChatListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the 30 most recent messages, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []ChatMessage

			if err := client.Get("/chat/messages", &result); err != nil {
				return err
			}
			if result == nil {
				result = []ChatMessage{}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newChatPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <nick> <text...>",
		Short: "Post a chat message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"nick":         args[0],
				"message_text": strings.Join(args[1:], " "),
			}
			var result PostResult

			if err := client.Post("/chat/message", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
