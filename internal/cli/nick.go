package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newNickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nick",
		Short: "Player nick commands",
	}

	cmd.AddCommand(newNickGetCmd())
	cmd.AddCommand(newNickSetCmd())
	cmd.AddCommand(newNickCheckCmd())

	return cmd
}

func nickPath(authID string) string {
	return "/player/" + url.PathEscape(authID) + "/nick"
}

func newNickGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <auth_id>",
		Short: "Show a player's nick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result NickResult

			if err := client.Get(nickPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newNickSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <auth_id> <nick>",
		Short: "Create or replace a player's nick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"nick": args[1]}
			var result MessageResult

			if err := client.Post(nickPath(args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newNickCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <name>",
		Short: "Check whether a nick is taken, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ExistsResult

			q := url.Values{"name": []string{args[0]}}
			if err := client.Get("/nicks/check?"+q.Encode(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
