package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type inboxView struct {
	Notifications any `json:"notifications"`
	UnreadCount   int `json:"unreadCount"`
}

// NewNotificationsCommand creates the notifications command group.
func NewNotificationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Read your notifications",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, unread marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				inbox := c.svc.Inbox()
				if err := inbox.Refresh(ctx); err != nil {
					return err
				}
				items, unread := inbox.Items(), inbox.Unread()
				return c.out.Success(inboxView{Notifications: items, UnreadCount: unread}, renderNotifications(items, unread))
			})
		},
	}

	read := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				inbox := c.svc.Inbox()
				if err := inbox.Refresh(ctx); err != nil {
					return err
				}
				if err := inbox.MarkRead(ctx, args[0]); err != nil {
					return err
				}
				return c.out.Success(map[string]int{"unreadCount": inbox.Unread()}, renderMessage("%d unread", inbox.Unread()))
			})
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if err := c.svc.Inbox().MarkAllRead(ctx); err != nil {
					return err
				}
				return c.out.Success(map[string]int{"unreadCount": 0}, renderMessage("All notifications marked as read"))
			})
		},
	}

	cmd.AddCommand(list, read, readAll)
	return cmd
}
