package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/rsvp"
)

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Inspect and manage single events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <event-id>",
		Short: "Show event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				ev, err := c.svc.Client().GetEvent(ctx, args[0])
				if err != nil {
					return err
				}
				return c.out.Success(ev, renderEvent(ev))
			})
		},
	})
	cmd.AddCommand(
		newEventCreateCommand(rootOpts),
		newEventUpdateCommand(rootOpts),
		newEventDeleteCommand(rootOpts),
		newEventPhotoCommand(rootOpts),
	)

	return cmd
}

// NewRSVPCommand creates the rsvp command.
func NewRSVPCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rsvp <event-id> <going|maybe|not-going>",
		Short: "Set your RSVP for an event",
		Long: `Set your RSVP for an event.

Repeating your current answer changes nothing. Cancelling is "not-going".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				status, err := parseStatus(args[1])
				if err != nil {
					return err
				}
				a, err := c.svc.SetStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				return c.out.Success(a, renderAttendance(a))
			})
		},
	}
}

func parseStatus(s string) (model.RSVPStatus, error) {
	status := model.RSVPStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !status.Valid() {
		return "", usagef("unknown RSVP status %q (want going, maybe or not-going)", s)
	}
	return status, nil
}

// NewAttendeesCommand creates the attendees command.
func NewAttendeesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attendees <event-id>",
		Short: "List the attendees of an event you organize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				list, err := c.svc.Reconciler().LoadAttendees(ctx, args[0])
				if err != nil {
					return err
				}
				return c.out.Success(list, renderAttendees(list))
			})
		},
	}
}

// NewCheckInCommand creates the checkin command.
func NewCheckInCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <event-id> <user-id>...",
		Short: "Check attendees in",
		Long: `Check one or more attendees in.

Writes run concurrently; the exit code is 1 if any of them failed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				eventID, users := args[0], args[1:]
				if _, err := c.svc.Reconciler().LoadAttendees(ctx, eventID); err != nil {
					return err
				}
				results := c.svc.Reconciler().CheckInAll(ctx, eventID, users)
				rows := checkInRows(results)
				if err := c.out.Success(rows, renderCheckIns(rows)); err != nil {
					return err
				}
				for _, r := range results {
					if r.Err != nil {
						return NewExitError(ExitFailure, "some check-ins failed")
					}
				}
				return nil
			})
		},
	}
}

type scanRow struct {
	Code   string      `json:"code"`
	Result string      `json:"result"`
	RSVP   *model.RSVP `json:"rsvp,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <event-id> [ticket-code]",
		Short: "Validate ticket codes at the door",
		Long: `Validate ticket codes at the door.

With no code argument, codes are read from stdin one per line, as a
scanner would emit them. Codes arriving while one is processed or within
the cool-down after it are dropped.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				eventID := args[0]
				if len(args) == 2 {
					res, err := c.svc.Scan(ctx, eventID, args[1])
					if err != nil {
						return err
					}
					return c.out.Success(res, renderMessage("Checked in %s", userName(res)))
				}
				return scanStream(ctx, c, eventID)
			})
		},
	}
}

func scanStream(ctx context.Context, c *command, eventID string) error {
	var rows []scanRow
	failed := false
	lines := bufio.NewScanner(c.cmd.InOrStdin())
	for lines.Scan() {
		code := strings.TrimSpace(lines.Text())
		if code == "" {
			continue
		}
		row := scanRow{Code: code, Result: "ok"}
		res, err := c.svc.Scan(ctx, eventID, code)
		switch {
		case errors.Is(err, rsvp.ErrCoolingDown), errors.Is(err, rsvp.ErrScanInFlight):
			row.Result = "dropped"
		case err != nil:
			row.Result = "rejected"
			row.Error = err.Error()
			failed = true
		default:
			row.RSVP = &res
		}
		c.out.VerboseLog("%s: %s", code, row.Result)
		rows = append(rows, row)
	}
	if err := lines.Err(); err != nil {
		return err
	}

	if err := c.out.Success(rows, renderScans(rows)); err != nil {
		return err
	}
	if failed {
		return NewExitError(ExitFailure, "some tickets were rejected")
	}
	return nil
}
