package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"allma-client/internal/app"
)

var (
	sendNew          bool
	sendConversation string
)

// sendCmd sends one message to the active conversation
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a message and print the reply",
	Long: `Send a message to the active conversation and print the assistant reply.

The exchange is stored the same way as messages sent from the web UI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		return withApp(func(ctx context.Context, a *app.App) error {
			if sendNew {
				a.Registry.CreateConversation()
			} else if sendConversation != "" {
				if err := a.Registry.SelectConversation(sendConversation); err != nil {
					return err
				}
			}
			reply, err := a.Chat.SendMessage(ctx, text)
			if err != nil {
				return err
			}
			if reply == nil {
				return fmt.Errorf("message is empty")
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return nil
		})
	},
}

// conversationsCmd lists stored conversations
var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"ls"},
	Short:   "List stored conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			active := a.Registry.ActiveID()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tTITLE\tMESSAGES\tUPDATED")
			for _, s := range a.Registry.Summaries() {
				marker := ""
				if s.ID == active {
					marker = "*"
				}
				updated := "-"
				if s.UpdatedAt > 0 {
					updated = time.UnixMilli(s.UpdatedAt).Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", marker, s.ID, s.Title, s.MessageCount, updated)
			}
			return tw.Flush()
		})
	},
}

// deleteCmd removes a conversation locally and on the backend
var deleteCmd = &cobra.Command{
	Use:     "delete <conversation-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored conversation",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			if err := a.Conversations.DeleteConversation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	sendCmd.Flags().BoolVar(&sendNew, "new", false, "start a new conversation first")
	sendCmd.Flags().StringVarP(&sendConversation, "conversation", "c", "", "conversation id to send to")
	sendCmd.MarkFlagsMutuallyExclusive("new", "conversation")
}
