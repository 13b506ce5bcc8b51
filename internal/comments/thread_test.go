package comments_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/comments"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
)

type fakeBackend struct {
	pages   map[int]api.CommentPage
	posted  []string
	nextID  int
	postErr error
	deleted []string
}

func (f *fakeBackend) Comments(_ context.Context, _ string, page int) (api.CommentPage, error) {
	p, ok := f.pages[page]
	if !ok {
		return api.CommentPage{}, &api.Error{Op: "comments.list", Status: http.StatusNotFound}
	}
	return p, nil
}

func (f *fakeBackend) PostComment(_ context.Context, _ string, message, parentID string) (model.Comment, error) {
	if f.postErr != nil {
		return model.Comment{}, f.postErr
	}
	f.nextID++
	f.posted = append(f.posted, message)
	c := model.Comment{ID: fmt.Sprintf("new-%d", f.nextID), Message: message}
	if parentID != "" {
		c.ParentID = &parentID
	}
	return c, nil
}

func (f *fakeBackend) DeleteComment(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func ids(list []model.Comment) []string {
	out := []string{}
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestThread(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a thread with two pages", t, func() {
		b := &fakeBackend{pages: map[int]api.CommentPage{
			1: {TotalPages: 2, Comments: []model.Comment{
				{ID: "c1", Message: "first", Replies: []model.Comment{{ID: "c1r1", Message: "reply"}}},
				{ID: "c2", Message: "second"},
			}},
			2: {TotalPages: 2, Comments: []model.Comment{{ID: "c3", Message: "third"}}},
		}}
		q := notice.NewQueue()
		th := comments.NewThread("e1", b, q)
		convey.So(th.Load(ctx, 1), convey.ShouldBeNil)

		convey.Convey("When loading the next page", func() {
			convey.So(th.HasMore(), convey.ShouldBeTrue)
			convey.So(th.Load(ctx, 2), convey.ShouldBeNil)

			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"c1", "c2", "c3"})
			convey.So(th.HasMore(), convey.ShouldBeFalse)
			convey.So(th.Page(), convey.ShouldEqual, 2)
		})

		convey.Convey("When reloading page 1", func() {
			_ = th.Load(ctx, 2)
			_ = th.Load(ctx, 1)

			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"c1", "c2"})
		})

		convey.Convey("When posting", func() {
			c, err := th.Post(ctx, "  hello  ")

			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Message, convey.ShouldEqual, "hello")
			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"new-1", "c1", "c2"})
		})

		convey.Convey("When replying to a nested reply", func() {
			_, err := th.Reply(ctx, "c1r1", "deeper")

			convey.So(err, convey.ShouldBeNil)
			got := th.Comments()
			convey.So(ids(got[0].Replies[0].Replies), convey.ShouldResemble, []string{"new-1"})
		})

		convey.Convey("When replying to an unknown comment", func() {
			_, err := th.Reply(ctx, "missing", "hi")

			convey.So(errors.Is(err, comments.ErrUnknownComment), convey.ShouldBeTrue)
			convey.So(b.posted, convey.ShouldBeEmpty)
		})

		convey.Convey("When posting a blank message", func() {
			_, err := th.Post(ctx, "   ")

			convey.So(errors.Is(err, comments.ErrEmptyMessage), convey.ShouldBeTrue)
			convey.So(b.posted, convey.ShouldBeEmpty)
		})

		convey.Convey("When deleting a reply", func() {
			convey.So(th.Delete(ctx, "c1r1"), convey.ShouldBeNil)

			got := th.Comments()
			convey.So(got[0].Replies, convey.ShouldBeEmpty)
			convey.So(b.deleted, convey.ShouldResemble, []string{"c1r1"})
		})

		convey.Convey("When deleting a top-level comment", func() {
			convey.So(th.Delete(ctx, "c2"), convey.ShouldBeNil)
			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"c1"})
		})

		convey.Convey("When deleting a comment that is not loaded", func() {
			err := th.Delete(ctx, "missing")

			convey.So(errors.Is(err, comments.ErrUnknownComment), convey.ShouldBeTrue)
			convey.So(b.deleted, convey.ShouldBeEmpty)
			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"c1", "c2"})
		})

		convey.Convey("When the backend rejects a post", func() {
			b.postErr = &api.Error{Op: "comments.create", Status: http.StatusForbidden, Message: "Comments are closed"}
			_, err := th.Post(ctx, "late")

			convey.So(errors.Is(err, api.ErrRejected), convey.ShouldBeTrue)
			convey.So(q.Drain()[0].Message, convey.ShouldEqual, "Comments are closed")
			convey.So(ids(th.Comments()), convey.ShouldResemble, []string{"c1", "c2"})
		})

		convey.Convey("When mutating a returned copy", func() {
			got := th.Comments()
			got[0].Replies[0].Message = "changed"

			convey.So(th.Comments()[0].Replies[0].Message, convey.ShouldEqual, "reply")
		})
	})
}
