package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var to string
	var private bool

	cmd := &cobra.Command{
		Use:   "send <text>",
		Short: "Send a message to the room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgType := "message"
			if private {
				msgType = "private_message"
			}

			body := map[string]string{
				"to":   to,
				"text": args[0],
				"type": msgType,
			}

			var result Message
			if err := client.Post("/messages", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "Todos", "Recipient name (default broadcasts to everyone)")
	cmd.Flags().BoolVar(&private, "private", false, "Send as a private message")

	return cmd
}

func newMessagesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List messages visible to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/messages"
			if limit > 0 {
				path += "?limit=" + url.QueryEscape(fmt.Sprintf("%d", limit))
			}

			var result []Message
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only show the most recent N messages")

	return cmd
}

func newEditCmd() *cobra.Command {
	var to string
	var private bool

	cmd := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Edit one of your messages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgType := "message"
			if private {
				msgType = "private_message"
			}

			body := map[string]string{
				"to":   to,
				"text": args[1],
				"type": msgType,
			}

			if err := client.Put("/messages/"+url.PathEscape(args[0]), body, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Message updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "Todos", "Recipient name (default broadcasts to everyone)")
	cmd.Flags().BoolVar(&private, "private", false, "Send as a private message")

	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one of your messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/messages/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Message deleted")
			return nil
		},
	}
}
