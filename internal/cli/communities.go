package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
)

// NewCommunitiesCommand creates the communities command group.
func NewCommunitiesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "communities",
		Aliases: []string{"community"},
		Short:   "Browse and join communities",
	}

	var mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List communities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				var (
					out []model.Community
					err error
				)
				if mine {
					out, err = c.svc.Client().MyCommunities(ctx)
				} else {
					out, err = c.svc.Client().Communities(ctx)
				}
				if err != nil {
					return err
				}
				return c.out.Success(out, renderCommunities(out))
			})
		},
	}
	list.Flags().BoolVar(&mine, "mine", false, "only communities you belong to")

	join := &cobra.Command{
		Use:   "join <community-id>",
		Short: "Join a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if err := c.svc.Client().JoinCommunity(ctx, args[0]); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"joined": args[0]}, renderMessage("Joined %s", args[0]))
			})
		},
	}

	leave := &cobra.Command{
		Use:   "leave <community-id>",
		Short: "Leave a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if err := c.svc.Client().LeaveCommunity(ctx, args[0]); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"left": args[0]}, renderMessage("Left %s", args[0]))
			})
		},
	}

	members := &cobra.Command{
		Use:   "members <community-id>",
		Short: "List the members and admins of a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				m, err := c.svc.Client().CommunityMembers(ctx, args[0])
				if err != nil {
					return err
				}
				return c.out.Success(m, renderMembers(m))
			})
		},
	}

	events := &cobra.Command{
		Use:   "events <community-id>",
		Short: "List the events hosted by a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				evs, err := c.svc.Client().CommunityEvents(ctx, args[0])
				if err != nil {
					return err
				}
				return c.out.Success(evs, renderEvents(evs))
			})
		},
	}

	invite := &cobra.Command{
		Use:   "invite <community-id> <email>",
		Short: "Invite someone by email (admins only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				email := strings.TrimSpace(args[1])
				if !strings.Contains(email, "@") {
					return usagef("%q is not an email address", args[1])
				}
				if err := c.svc.Client().InviteMember(ctx, args[0], email); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"community": args[0], "invited": email},
					renderMessage("Invited %s to %s", email, args[0]))
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <community-id> <user-id>",
		Short: "Remove a member (admins only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if err := c.svc.Client().RemoveMember(ctx, args[0], args[1]); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"community": args[0], "removed": args[1]},
					renderMessage("Removed %s from %s", args[1], args[0]))
			})
		},
	}

	cmd.AddCommand(list, newCommunityCreateCommand(rootOpts), join, leave, members, events, invite, remove)
	return cmd
}

func newCommunityCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var in struct {
		name        string
		kind        string
		description string
		at          string
		address     string
	}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a community you administer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				body := api.CommunityInput{
					Name:        strings.TrimSpace(in.name),
					Type:        model.CommunityType(strings.ToUpper(in.kind)),
					Description: in.description,
				}
				if body.Name == "" {
					return usagef("--name is required")
				}
				if !body.Type.Valid() {
					return usagef("unknown community type %q (want neighborhood, hobby or business)", in.kind)
				}
				if in.at != "" {
					lat, lng, err := parseLatLng("--at", in.at)
					if err != nil {
						return err
					}
					p := model.NewPoint(lat, lng, in.address)
					body.Location = &p
				}
				k, err := c.svc.Client().CreateCommunity(ctx, body)
				if err != nil {
					return err
				}
				return c.out.Success(k, renderMessage("Created community %s (%s)", k.Name, k.ID))
			})
		},
	}
	cmd.Flags().StringVar(&in.name, "name", "", "community name")
	cmd.Flags().StringVar(&in.kind, "type", "", "neighborhood, hobby or business")
	cmd.Flags().StringVar(&in.description, "description", "", "what the community is about")
	cmd.Flags().StringVar(&in.at, "at", "", `centre as "lat,lng"`)
	cmd.Flags().StringVar(&in.address, "address", "", "address of the centre, used with --at")
	return cmd
}
