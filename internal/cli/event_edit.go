package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
)

// Accepted --start, --end and --until layouts. Times without a zone are UTC.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// eventFlags are the writable event fields. Only flags that were set are
// applied, so update leaves the rest of the event alone.
type eventFlags struct {
	title       string
	description string
	category    string
	visibility  string
	start       string
	end         string
	at          string
	address     string
	capacity    int
	community   string
	photos      []string
	repeat      string
	every       int
	until       string
}

var eventFlagNames = []string{
	"title", "description", "category", "visibility", "start", "end", "at", "address",
	"capacity", "community", "photo", "repeat", "every", "until",
}

func (f *eventFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "event title")
	fl.StringVar(&f.description, "description", "", "event description")
	fl.StringVarP(&f.category, "category", "c", "", "category (MUSIC, TECH, SPORTS, ...)")
	fl.StringVar(&f.visibility, "visibility", "", "PUBLIC, COMMUNITY_ONLY or PRIVATE_INVITE")
	fl.StringVar(&f.start, "start", "", `start time, RFC 3339 or "2006-01-02 15:04" (UTC)`)
	fl.StringVar(&f.end, "end", "", "end time, same layouts as --start")
	fl.StringVar(&f.at, "at", "", `venue position as "lat,lng"`)
	fl.StringVar(&f.address, "address", "", "venue address")
	fl.IntVar(&f.capacity, "capacity", 0, "maximum attendees, 0 for unlimited")
	fl.StringVar(&f.community, "community", "", "id of the hosting community")
	fl.StringArrayVar(&f.photos, "photo", nil, "photo URL, repeatable")
	fl.StringVar(&f.repeat, "repeat", "", "daily, weekly, monthly or none")
	fl.IntVar(&f.every, "every", 1, "repeat interval for --repeat")
	fl.StringVar(&f.until, "until", "", "last date of a repeating event")
}

// apply overlays the flags set on cmd onto in.
func (f *eventFlags) apply(cmd *cobra.Command, in *api.EventInput) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		in.Title = strings.TrimSpace(f.title)
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("category") {
		cat := model.Category(strings.ToUpper(f.category))
		if !cat.Valid() {
			return usagef("unknown category %q", f.category)
		}
		in.Category = cat
	}
	if changed("visibility") {
		v := model.Visibility(strings.ToUpper(strings.ReplaceAll(f.visibility, "-", "_")))
		switch v {
		case model.VisibilityPublic, model.VisibilityCommunityOnly, model.VisibilityPrivateInvite:
			in.Visibility = v
		default:
			return usagef("unknown visibility %q", f.visibility)
		}
	}
	if changed("start") {
		t, err := parseTime("start", f.start)
		if err != nil {
			return err
		}
		in.StartDateTime = t.Format(time.RFC3339)
	}
	if changed("end") {
		t, err := parseTime("end", f.end)
		if err != nil {
			return err
		}
		in.EndDateTime = t.Format(time.RFC3339)
	}
	if changed("at") {
		lat, lng, err := parseLatLng("--at", f.at)
		if err != nil {
			return err
		}
		in.Location = model.NewPoint(lat, lng, in.Location.Address)
	}
	if changed("address") {
		in.Location.Address = f.address
	}
	if changed("capacity") {
		if f.capacity < 0 {
			return usagef("--capacity must not be negative")
		}
		in.Capacity = f.capacity
	}
	if changed("community") {
		in.Community = f.community
	}
	if changed("photo") {
		in.Photos = f.photos
	}
	return f.applyRepeat(changed, in)
}

func anyEventFlag(cmd *cobra.Command) bool {
	for _, name := range eventFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *eventFlags) applyRepeat(changed func(string) bool, in *api.EventInput) error {
	if changed("repeat") {
		freq := model.Frequency(strings.ToUpper(f.repeat))
		switch freq {
		case "NONE", "":
			in.RecurringRule = nil
		case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
			in.RecurringRule = &model.RecurringRule{Frequency: freq, Interval: 1}
		default:
			return usagef("unknown repeat frequency %q", f.repeat)
		}
	}
	if !changed("every") && !changed("until") {
		return nil
	}
	if in.RecurringRule == nil {
		return usagef("--every and --until need a repeating event (--repeat)")
	}
	if changed("every") {
		if f.every < 1 {
			return usagef("--every must be at least 1")
		}
		in.RecurringRule.Interval = f.every
	}
	if changed("until") {
		t, err := parseTime("until", f.until)
		if err != nil {
			return err
		}
		in.RecurringRule.EndDate = &t
	}
	return nil
}

func parseTime(flag, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, usagef("--%s: cannot parse time %q", flag, s)
}

// validateEvent checks what the backend would reject anyway, before any
// request is sent.
func validateEvent(in api.EventInput) error {
	switch {
	case in.Title == "":
		return usagef("--title is required")
	case !in.Category.Valid():
		return usagef("--category is required")
	case in.StartDateTime == "" || in.EndDateTime == "":
		return usagef("--start and --end are required")
	case in.Location.Type == "":
		return usagef("--at is required")
	}
	start, _ := time.Parse(time.RFC3339, in.StartDateTime)
	end, _ := time.Parse(time.RFC3339, in.EndDateTime)
	if !end.After(start) {
		return usagef("the event must end after it starts")
	}
	return nil
}

// inputFrom turns a fetched event back into a full write payload.
func inputFrom(ev model.Event) api.EventInput {
	in := api.EventInput{
		Title:         ev.Title,
		Description:   ev.Description,
		Category:      ev.Category,
		Visibility:    ev.Visibility,
		Location:      ev.Location,
		Capacity:      ev.Capacity,
		Community:     ev.Community.ID(),
		Photos:        ev.Photos,
		RecurringRule: ev.RecurringRule,
	}
	if !ev.StartDateTime.IsZero() {
		in.StartDateTime = ev.StartDateTime.UTC().Format(time.RFC3339)
	}
	if !ev.EndDateTime.IsZero() {
		in.EndDateTime = ev.EndDateTime.UTC().Format(time.RFC3339)
	}
	return in
}

func newEventCreateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event you organize",
		Example: `  eventsphere event create --title "Sunrise Yoga" --category sports \
    --start "2026-06-01 07:00" --end "2026-06-01 08:00" --at 40.7,-74 --capacity 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				in := api.EventInput{Visibility: model.VisibilityPublic}
				if err := flags.apply(cmd, &in); err != nil {
					return err
				}
				if err := validateEvent(in); err != nil {
					return err
				}
				ev, err := c.svc.Client().CreateEvent(ctx, in)
				if err != nil {
					return err
				}
				c.out.VerboseLog("created event %s", ev.ID)
				return c.out.Success(ev, renderEvent(ev))
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newEventUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Change an event you organize",
		Long: `Change an event you organize.

The event is fetched first and only the flags you pass are changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if !anyEventFlag(cmd) {
					return usagef("nothing to change")
				}
				current, err := c.svc.Client().GetEvent(ctx, args[0])
				if err != nil {
					return err
				}
				in := inputFrom(current)
				if err := flags.apply(cmd, &in); err != nil {
					return err
				}
				if err := validateEvent(in); err != nil {
					return err
				}
				ev, err := c.svc.Client().UpdateEvent(ctx, args[0], in)
				if err != nil {
					return err
				}
				return c.out.Success(ev, renderEvent(ev))
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newEventDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event you organize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if err := c.svc.Client().DeleteEvent(ctx, args[0]); err != nil {
					return err
				}
				return c.out.Success(map[string]string{"deleted": args[0]}, renderMessage("Deleted event %s", args[0]))
			})
		},
	}
}

func newEventPhotoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <event-id> <url>",
		Short: "Attach an uploaded photo to an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				photo := strings.TrimSpace(args[1])
				if !strings.HasPrefix(photo, "http://") && !strings.HasPrefix(photo, "https://") {
					return usagef("photo must be an http(s) URL, got %q", args[1])
				}
				ev, err := c.svc.Client().AddPhoto(ctx, args[0], photo)
				if err != nil {
					return err
				}
				return c.out.Success(ev, renderMessage("Event %s has %d photos", ev.ID, len(ev.Photos)))
			})
		},
	}
}
