package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <name>",
		Short: "Join the chat room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RegisterResult

			body := map[string]string{"name": args[0]}
			if err := client.Post("/participants", body, &result); err != nil {
				return err
			}

			// Persist the session token for subsequent commands
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			client.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWhoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "who",
		Short: "List who is in the room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Participant

			if err := client.Get("/participants", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a presence heartbeat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/status", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Still here")
			return nil
		},
	}
}
