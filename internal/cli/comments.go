package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/comments"
)

// NewCommentsCommand creates the comments command group.
func NewCommentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Read and write event comments",
	}

	var page int
	list := &cobra.Command{
		Use:   "list <event-id>",
		Short: "Show the comment thread of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if page < 1 {
					return usagef("--page must be at least 1")
				}
				t := c.svc.Thread(args[0])
				if err := t.Load(ctx, page); err != nil {
					return err
				}
				if t.HasMore() {
					c.out.VerboseLog("more comments on page %d", t.Page()+1)
				}
				out := t.Comments()
				return c.out.Success(out, renderComments(out))
			})
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page to show")

	post := &cobra.Command{
		Use:   "post <event-id> <message>...",
		Short: "Post a comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				created, err := c.svc.Thread(args[0]).Post(ctx, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				return c.out.Success(created, renderComment(created))
			})
		},
	}

	reply := &cobra.Command{
		Use:   "reply <event-id> <comment-id> <message>...",
		Short: "Reply to a comment",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				t, err := loadThread(ctx, c, args[0])
				if err != nil {
					return err
				}
				created, err := t.Reply(ctx, args[1], strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				return c.out.Success(created, renderComment(created))
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <event-id> <comment-id>",
		Short: "Delete a comment and its replies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				t, err := loadThread(ctx, c, args[0])
				if err != nil {
					return err
				}
				if err := t.Delete(ctx, args[1]); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"deleted": args[1]}, renderMessage("Deleted comment %s", args[1]))
			})
		},
	}

	cmd.AddCommand(list, post, reply, del)
	return cmd
}

// loadThread fetches every page so nested comments can be addressed by id.
func loadThread(ctx context.Context, c *command, eventID string) (*comments.Thread, error) {
	t := c.svc.Thread(eventID)
	if err := t.Load(ctx, 1); err != nil {
		return nil, err
	}
	for t.HasMore() {
		if err := t.Load(ctx, t.Page()+1); err != nil {
			return nil, err
		}
	}
	return t, nil
}
