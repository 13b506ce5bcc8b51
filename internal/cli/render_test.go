package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
)

var sunrise = time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC)

func goldenFor(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func yogaEvent() model.Event {
	going := model.StatusGoing
	return model.Event{
		ID:             "e1",
		Title:          "Sunrise Yoga",
		Description:    "Bring a mat.",
		Category:       model.CategorySports,
		Visibility:     model.VisibilityPublic,
		StartDateTime:  sunrise,
		EndDateTime:    sunrise.Add(time.Hour),
		Location:       model.NewPoint(40.7, -74, "Riverside Park"),
		Capacity:       20,
		AttendeeCount:  12,
		Organizer:      model.InlineRef(model.User{ID: "u9", Name: "Ada"}),
		UserRSVPStatus: &going,
	}
}

func TestRenderFeed_Golden(t *testing.T) {
	snap := discovery.Snapshot{
		State: discovery.StateReady,
		Events: []model.Event{
			yogaEvent(),
			{
				ID:            "e2",
				Title:         "Go Meetup",
				Category:      model.CategoryTech,
				StartDateTime: time.Date(2026, 6, 3, 18, 30, 0, 0, time.UTC),
				AttendeeCount: 1200,
			},
		},
		Cursor: model.NewCursor(1, 3),
	}

	buf := &bytes.Buffer{}
	require.NoError(t, renderFeed(snap)(buf))
	goldenFor(t).Assert(t, "feed", buf.Bytes())
}

func TestRenderEvent_Golden(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, renderEvent(yogaEvent())(buf))
	goldenFor(t).Assert(t, "event", buf.Bytes())
}

func TestRenderAttendees_Golden(t *testing.T) {
	at := sunrise.Add(5 * time.Minute)
	list := []model.RSVP{
		{
			ID:          "r1",
			User:        model.InlineRef(model.User{ID: "u1", Name: "Grace"}),
			Status:      model.StatusGoing,
			CheckedIn:   true,
			CheckInTime: &at,
		},
		{ID: "r2", User: model.RefOf[model.User]("u2"), Status: model.StatusMaybe},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, renderAttendees(list)(buf))
	goldenFor(t).Assert(t, "attendees", buf.Bytes())
}

func TestRenderEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, renderFeed(discovery.Snapshot{})(buf))
	assert.Equal(t, "No events found.\n", buf.String())

	buf.Reset()
	require.NoError(t, renderComments(nil)(buf))
	assert.Equal(t, "No comments yet.\n", buf.String())
}

func TestRenderComments_NestsReplies(t *testing.T) {
	list := []model.Comment{
		{
			ID: "c1", Message: "Is parking free?", User: model.User{Name: "Ada"},
			Replies: []model.Comment{
				{ID: "c2", Message: "Yes, after 6pm.", User: model.User{Name: "Grace"},
					Replies: []model.Comment{{ID: "c3", Message: "Thanks!", User: model.User{Name: "Ada"}}}},
			},
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, renderComments(list)(buf))
	assert.Equal(t,
		"[c1] Ada: Is parking free?\n  [c2] Grace: Yes, after 6pm.\n    [c3] Ada: Thanks!\n",
		buf.String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Not Going", label(model.StatusNotGoing))
	assert.Equal(t, "Community Invite", label(model.NotificationCommunityInvite))
	assert.Equal(t, "Neighborhood", label(model.CategoryNeighborhood))
	assert.Equal(t, "-", label(model.RSVPStatus("")))
}
