package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/rsvp"
)

const timeLayout = "Mon Jan 2 2006 15:04"

var printer = message.NewPrinter(language.English)

// label turns an enum value such as NOT_GOING into "Not Going".
func label[S ~string](s S) string {
	if s == "" {
		return "-"
	}
	// Casers keep state between calls, so each label gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func attendance(ev model.Event) string {
	if ev.Capacity <= 0 {
		return printer.Sprintf("%d going", ev.AttendeeCount)
	}
	return printer.Sprintf("%d/%d", ev.AttendeeCount, ev.Capacity)
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func renderFeed(s discovery.Snapshot) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(s.Events) == 0 {
			_, err := fmt.Fprintln(w, "No events found.")
			return err
		}
		if err := writeEvents(w, s.Events); err != nil {
			return err
		}
		more := ""
		if s.Cursor.HasMore {
			more = ", more available"
		}
		_, err := printer.Fprintf(w, "\nPage %d of %d, %d events%s\n", s.Cursor.Page, s.Cursor.TotalPages, len(s.Events), more)
		return err
	}
}

func renderEvents(list []model.Event) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No events found.")
			return err
		}
		return writeEvents(w, list)
	}
}

func writeEvents(w io.Writer, list []model.Event) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTARTS\tGOING\tYOU")
	for _, ev := range list {
		var you model.RSVPStatus
		if ev.UserRSVPStatus != nil {
			you = *ev.UserRSVPStatus
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ev.ID, ev.Title, label(ev.Category), when(ev.StartDateTime), attendance(ev), label(you))
	}
	return tw.Flush()
}

func renderEvent(ev model.Event) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := table(w)
		fmt.Fprintf(tw, "Title:\t%s\n", ev.Title)
		fmt.Fprintf(tw, "Category:\t%s\n", label(ev.Category))
		fmt.Fprintf(tw, "Visibility:\t%s\n", label(ev.Visibility))
		fmt.Fprintf(tw, "Starts:\t%s\n", when(ev.StartDateTime))
		fmt.Fprintf(tw, "Ends:\t%s\n", when(ev.EndDateTime))
		if ev.Location.Address != "" {
			fmt.Fprintf(tw, "Where:\t%s\n", ev.Location.Address)
		}
		fmt.Fprintf(tw, "Attendees:\t%s\n", attendance(ev))
		if ev.Capacity > 0 {
			printer.Fprintf(tw, "Spots left:\t%d\n", ev.SpotsLeft())
		}
		if org, ok := ev.Organizer.Inline(); ok {
			fmt.Fprintf(tw, "Organizer:\t%s\n", org.Name)
		}
		if ev.UserRSVPStatus != nil {
			fmt.Fprintf(tw, "Your RSVP:\t%s\n", label(*ev.UserRSVPStatus))
		}
		if ev.RecurringRule != nil {
			fmt.Fprintf(tw, "Repeats:\t%s every %d\n", label(ev.RecurringRule.Frequency), ev.RecurringRule.Interval)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if ev.Description != "" {
			_, err := fmt.Fprintf(w, "\n%s\n", ev.Description)
			return err
		}
		return nil
	}
}

func renderAttendance(a rsvp.Attendance) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := printer.Fprintf(w, "RSVP %s for %s (%s)\n",
			label(a.Status), a.EventID, attendance(model.Event{AttendeeCount: a.AttendeeCount, Capacity: a.Capacity}))
		return err
	}
}

func userName(r model.RSVP) string {
	if u, ok := r.User.Inline(); ok && u.Name != "" {
		return u.Name
	}
	return r.User.ID()
}

func renderAttendees(list []model.RSVP) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No attendees yet.")
			return err
		}
		tw := table(w)
		fmt.Fprintln(tw, "USER\tNAME\tSTATUS\tCHECKED IN")
		for _, r := range list {
			in := "no"
			if r.CheckedIn {
				in = "yes"
				if r.CheckInTime != nil {
					in = when(*r.CheckInTime)
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.User.ID(), userName(r), label(r.Status), in)
		}
		return tw.Flush()
	}
}

type checkInRow struct {
	UserID string `json:"userId"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func checkInRows(results []rsvp.CheckInResult) []checkInRow {
	rows := make([]checkInRow, len(results))
	for i, r := range results {
		rows[i] = checkInRow{UserID: r.UserID, OK: r.Err == nil}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
		}
	}
	return rows
}

func renderCheckIns(rows []checkInRow) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := table(w)
		for _, r := range rows {
			if r.OK {
				fmt.Fprintf(tw, "%s\tchecked in\n", r.UserID)
			} else {
				fmt.Fprintf(tw, "%s\tfailed\t%s\n", r.UserID, r.Error)
			}
		}
		return tw.Flush()
	}
}

func renderScans(rows []scanRow) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No codes read.")
			return err
		}
		tw := table(w)
		for _, r := range rows {
			switch {
			case r.RSVP != nil:
				fmt.Fprintf(tw, "%s\tchecked in\t%s\n", r.Code, userName(*r.RSVP))
			case r.Error != "":
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code, r.Result, r.Error)
			default:
				fmt.Fprintf(tw, "%s\t%s\n", r.Code, r.Result)
			}
		}
		return tw.Flush()
	}
}

func renderCommunities(list []model.Community) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No communities.")
			return err
		}
		tw := table(w)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tMEMBERS")
		for _, c := range list {
			printer.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.ID, c.Name, label(c.Type), len(c.Members))
		}
		return tw.Flush()
	}
}

func renderMembers(m model.Members) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := table(w)
		fmt.Fprintln(tw, "USER\tNAME\tROLE")
		admins := make(map[string]bool, len(m.Admins))
		for _, a := range m.Admins {
			admins[a.ID] = true
			fmt.Fprintf(tw, "%s\t%s\tadmin\n", a.ID, a.Name)
		}
		for _, u := range m.Members {
			if admins[u.ID] {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\tmember\n", u.ID, u.Name)
		}
		return tw.Flush()
	}
}

func renderComments(list []model.Comment) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No comments yet.")
			return err
		}
		var walk func(cs []model.Comment, depth int) error
		walk = func(cs []model.Comment, depth int) error {
			for _, c := range cs {
				indent := strings.Repeat("  ", depth)
				if _, err := fmt.Fprintf(w, "%s[%s] %s: %s\n", indent, c.ID, c.User.Name, c.Message); err != nil {
					return err
				}
				if err := walk(c.Replies, depth+1); err != nil {
					return err
				}
			}
			return nil
		}
		return walk(list, 0)
	}
}

func renderComment(c model.Comment) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Posted comment %s\n", c.ID)
		return err
	}
}

func renderNotifications(items []model.Notification, unread int) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No notifications.")
			return err
		}
		tw := table(w)
		fmt.Fprintln(tw, "\tID\tTYPE\tTITLE")
		for _, n := range items {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, n.ID, label(n.Type), n.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := printer.Fprintf(w, "\n%d unread\n", unread)
		return err
	}
}

func renderMessage(format string, args ...any) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := printer.Fprintf(w, format+"\n", args...)
		return err
	}
}
