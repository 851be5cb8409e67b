package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative deletions",
	}

	cmd.AddCommand(newAdminDeletePlayerCmd())
	cmd.AddCommand(newAdminDeleteRangeCmd())

	return cmd
}

func newAdminDeletePlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-player <auth_id>",
		Short: "Delete a player's nick record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeletePlayerResult

			if err := client.Delete("/admin/player/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newAdminDeleteRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-range <start_id> <end_id>",
		Short: "Delete chat messages with ids in [start_id, end_id]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Sent as strings; the server validates and parses them
			req := map[string]string{"start_id": args[0], "end_id": args[1]}
			var result DeleteRangeResult

			if err := client.Post("/admin/chat/delete_range", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
