package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	service "github.com/okian/eventsphere/internal/app"
	"github.com/okian/eventsphere/internal/config"
	"github.com/okian/eventsphere/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func reply(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": status < 400, "data": data}
	if status >= 400 {
		body["message"] = http.StatusText(status)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func event(id, title string) map[string]any {
	return map[string]any{
		"_id": id, "title": title, "category": "SPORTS", "capacity": 30, "attendeeCount": 4,
		"startDateTime": "2026-06-01T07:00:00Z", "endDateTime": "2026-06-01T08:00:00Z",
		"location": map[string]any{"type": "Point", "coordinates": []float64{-74, 40.7}, "address": "Riverside Park"},
	}
}

// write is one mutating request seen by the fake backend.
type write struct {
	method string
	path   string
	body   map[string]any
}

// fakeBackend is a small stand-in for the REST API that records writes.
type fakeBackend struct {
	mu       sync.Mutex
	checkIns []string
	posted   []map[string]string
	writes   []write
	queries  []string
}

func (b *fakeBackend) record(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	b.writes = append(b.writes, write{method: r.Method, path: r.URL.EscapedPath(), body: body})
	b.mu.Unlock()
	return body
}

func (b *fakeBackend) recorded() []write {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]write(nil), b.writes...)
}

func (b *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusUnauthorized, nil)
	})
	mux.HandleFunc("GET /reverse", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"address": map[string]string{"town": "Hoboken"}})
	})
	mux.HandleFunc("GET /api/v1/events", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.queries = append(b.queries, r.URL.RawQuery)
		b.mu.Unlock()
		data := []map[string]any{event("e1", "Yoga"), event("e2", "Run club")}
		if r.URL.Query().Get("page") == "2" {
			data = []map[string]any{event("e2", "Run club"), event("e3", "Climbing")}
		}
		reply(w, http.StatusOK, map[string]any{
			"data": data,
			"meta": map[string]int{"total": 3, "page": 1, "limit": 2, "totalPages": 2},
		})
	})
	mux.HandleFunc("GET /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "e1" {
			reply(w, http.StatusNotFound, nil)
			return
		}
		reply(w, http.StatusOK, event("e1", "Yoga"))
	})
	mux.HandleFunc("POST /api/v1/events", func(w http.ResponseWriter, r *http.Request) {
		body := b.record(r)
		ev := event("e9", "")
		for k, v := range body {
			ev[k] = v
		}
		ev["_id"] = "e9"
		reply(w, http.StatusCreated, ev)
	})
	mux.HandleFunc("PUT /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		body := b.record(r)
		body["_id"] = r.PathValue("id")
		reply(w, http.StatusOK, body)
	})
	mux.HandleFunc("DELETE /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		if r.PathValue("id") != "e1" {
			reply(w, http.StatusNotFound, nil)
			return
		}
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("POST /api/v1/events/{id}/photos", func(w http.ResponseWriter, r *http.Request) {
		body := b.record(r)
		ev := event(r.PathValue("id"), "Yoga")
		ev["photos"] = []any{"https://img/0.jpg", body["url"]}
		reply(w, http.StatusOK, ev)
	})
	mux.HandleFunc("POST /api/v1/communities", func(w http.ResponseWriter, r *http.Request) {
		body := b.record(r)
		reply(w, http.StatusCreated, map[string]any{"_id": "k1", "name": body["name"], "type": body["type"], "admins": []string{"u1"}})
	})
	mux.HandleFunc("GET /api/v1/communities/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{event("e1", "Yoga"), event("e3", "Climbing")})
	})
	mux.HandleFunc("POST /api/v1/communities/{id}/invite", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("DELETE /api/v1/communities/{id}/members/{user}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		if r.PathValue("user") == "u1" {
			reply(w, http.StatusForbidden, nil)
			return
		}
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("POST /api/v1/events/{id}/rsvp", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Status string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		reply(w, http.StatusOK, map[string]any{"_id": "r1", "event": r.PathValue("id"), "status": body.Status})
	})
	mux.HandleFunc("GET /api/v1/events/{id}/attendees", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{
			{"_id": "r1", "user": map[string]any{"_id": "u1", "name": "Grace"}, "status": "GOING", "checkedIn": false},
			{"_id": "r2", "user": map[string]any{"_id": "u2", "name": "Linus"}, "status": "GOING", "checkedIn": true},
		})
	})
	mux.HandleFunc("POST /api/v1/events/{id}/checkin/{user}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.checkIns = append(b.checkIns, r.PathValue("user"))
		b.mu.Unlock()
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("POST /api/v1/events/{id}/scan", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ TicketCode string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.TicketCode == "BOGUS" {
			reply(w, http.StatusBadRequest, nil)
			return
		}
		reply(w, http.StatusOK, map[string]any{
			"_id": "r1", "user": map[string]any{"_id": "u1", "name": "Grace"}, "status": "GOING", "checkedIn": true,
		})
	})
	mux.HandleFunc("GET /api/v1/events/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"totalPages": 1,
			"comments": []map[string]any{{
				"_id": "c1", "message": "Is parking free?", "user": map[string]any{"_id": "u1", "name": "Ada"},
				"replies": []map[string]any{{"_id": "c2", "message": "Yes", "user": map[string]any{"_id": "u2", "name": "Grace"}}},
			}},
		})
	})
	mux.HandleFunc("POST /api/v1/events/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.posted = append(b.posted, body)
		b.mu.Unlock()
		reply(w, http.StatusCreated, map[string]any{"_id": "c9", "message": body["message"], "user": map[string]any{"_id": "u1"}})
	})
	mux.HandleFunc("GET /api/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"unreadCount": 1,
			"notifications": []map[string]any{
				{"_id": "n1", "type": "EVENT_INVITE", "title": "You're invited", "isRead": false},
				{"_id": "n2", "type": "GENERAL", "title": "Welcome", "isRead": true},
			},
		})
	})
	return httptest.NewServer(mux)
}

func testBuild(url string, tweaks ...func(*config.Config)) func(context.Context, *RootOptions) (*service.Service, error) {
	return func(ctx context.Context, _ *RootOptions) (*service.Service, error) {
		cfg := config.New()
		cfg.APIURL = url + "/api/v1"
		cfg.GeocoderURL = url
		cfg.AccessToken = "test-token"
		cfg.PageLimit = 2
		for _, tweak := range tweaks {
			tweak(cfg)
		}
		svc, err := service.New(cfg)
		if err != nil {
			return nil, err
		}
		return svc, svc.Start(ctx)
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

func execute(t *testing.T, url, stdin string, args ...string) result {
	t.Helper()
	return executeWith(t, testBuild(url), stdin, args...)
}

func executeWith(t *testing.T, build func(context.Context, *RootOptions) (*service.Service, error), stdin string, args ...string) result {
	t.Helper()
	cmd := newRootCommand(build)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), code: GetExitCode(err)}
}

func decodeData(t *testing.T, raw string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestDiscoverCommand(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	t.Run("merges pages without duplicates", func(t *testing.T) {
		res := execute(t, srv.URL, "", "--format", "json", "discover", "--search", "run", "--pages", "3")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		var snap struct {
			State  string `json:"state"`
			Events []struct {
				ID string `json:"_id"`
			} `json:"events"`
			Cursor struct {
				Page    int  `json:"page"`
				HasMore bool `json:"hasMore"`
			} `json:"cursor"`
			Filter struct {
				Search string `json:"search"`
			} `json:"filter"`
		}
		decodeData(t, res.stdout, &snap)
		assert.Equal(t, "READY", snap.State)
		require.Len(t, snap.Events, 3)
		assert.Equal(t, "e3", snap.Events[2].ID)
		assert.Equal(t, 2, snap.Cursor.Page)
		assert.False(t, snap.Cursor.HasMore)
		assert.Equal(t, "run", snap.Filter.Search)
	})

	t.Run("renders a table", func(t *testing.T) {
		res := execute(t, srv.URL, "", "discover")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Yoga")
		assert.Contains(t, res.stdout, "Sports")
		assert.Contains(t, res.stdout, "Page 1 of 2, 2 events, more available")
	})

	t.Run("rejects bad input before any request", func(t *testing.T) {
		for _, args := range [][]string{
			{"discover", "--category", "cricket"},
			{"discover", "--near", "north"},
			{"discover", "--pages", "0"},
		} {
			res := execute(t, srv.URL, "", args...)
			assert.Equal(t, ExitCommandError, res.code, args)
			assert.Contains(t, res.stderr, "Error [usage]")
		}
	})
}

func TestDiscoverHere(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	t.Run("filters around the configured location", func(t *testing.T) {
		build := testBuild(srv.URL, func(c *config.Config) {
			c.Location = "40.745,-74.032"
			c.DefaultRadiusKM = 3
		})
		res := executeWith(t, build, "", "--format", "json", "discover", "--here")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		var snap struct {
			Filter struct {
				Location struct {
					Lat    float64 `json:"lat"`
					Radius float64 `json:"radius"`
					Name   string  `json:"name"`
				} `json:"location"`
			} `json:"filter"`
		}
		decodeData(t, res.stdout, &snap)
		assert.Equal(t, 40.745, snap.Filter.Location.Lat)
		assert.Equal(t, 3.0, snap.Filter.Location.Radius)
		assert.Equal(t, "Hoboken", snap.Filter.Location.Name)

		b.mu.Lock()
		defer b.mu.Unlock()
		require.NotEmpty(t, b.queries)
		last := b.queries[len(b.queries)-1]
		assert.Contains(t, last, "lat=40.745")
		assert.Contains(t, last, "radius=3")
	})

	t.Run("fails without a location", func(t *testing.T) {
		res := execute(t, srv.URL, "", "discover", "--here")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "Error [location]")
	})
	t.Run("cannot be combined with --near", func(t *testing.T) {
		res := execute(t, srv.URL, "", "discover", "--here", "--near", "40.7,-74")
		assert.Equal(t, ExitCommandError, res.code)
	})
}

func TestEventWriteCommands(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	t.Run("create sends the full payload", func(t *testing.T) {
		res := execute(t, srv.URL, "", "--format", "json", "event", "create",
			"--title", "Sunrise Yoga", "--category", "sports",
			"--start", "2026-06-01 07:00", "--end", "2026-06-01T08:00:00Z",
			"--at", "40.7,-74", "--address", "Riverside Park", "--capacity", "20",
			"--repeat", "weekly", "--every", "2")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		var ev struct {
			ID    string `json:"_id"`
			Title string `json:"title"`
		}
		decodeData(t, res.stdout, &ev)
		assert.Equal(t, "e9", ev.ID)
		assert.Equal(t, "Sunrise Yoga", ev.Title)

		writes := b.recorded()
		require.NotEmpty(t, writes)
		w := writes[len(writes)-1]
		assert.Equal(t, http.MethodPost, w.method)
		assert.Equal(t, "/api/v1/events", w.path)
		assert.Equal(t, "SPORTS", w.body["category"])
		assert.Equal(t, "PUBLIC", w.body["visibility"])
		assert.Equal(t, "2026-06-01T07:00:00Z", w.body["startDateTime"])
		assert.Equal(t, float64(20), w.body["capacity"])
		assert.Equal(t, []any{-74.0, 40.7}, w.body["location"].(map[string]any)["coordinates"])
		assert.Equal(t, map[string]any{"frequency": "WEEKLY", "interval": float64(2)}, w.body["recurringRule"])
	})

	t.Run("create rejects incomplete input before any request", func(t *testing.T) {
		before := len(b.recorded())
		for _, args := range [][]string{
			{"event", "create", "--category", "sports", "--start", "2026-06-01", "--end", "2026-06-02", "--at", "1,2"},
			{"event", "create", "--title", "x", "--category", "cricket"},
			{"event", "create", "--title", "x", "--category", "tech", "--start", "2026-06-02", "--end", "2026-06-01", "--at", "1,2"},
			{"event", "create", "--title", "x", "--category", "tech", "--start", "soon", "--end", "2026-06-01", "--at", "1,2"},
			{"event", "create", "--title", "x", "--category", "tech", "--every", "2"},
		} {
			res := execute(t, srv.URL, "", args...)
			assert.Equal(t, ExitCommandError, res.code, args)
			assert.Contains(t, res.stderr, "Error [usage]", args)
		}
		assert.Len(t, b.recorded(), before)
	})

	t.Run("update only changes the given flags", func(t *testing.T) {
		res := execute(t, srv.URL, "", "event", "update", "e1", "--capacity", "45", "--title", "Sunset Yoga")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Sunset Yoga")

		writes := b.recorded()
		w := writes[len(writes)-1]
		assert.Equal(t, http.MethodPut, w.method)
		assert.Equal(t, "/api/v1/events/e1", w.path)
		assert.Equal(t, float64(45), w.body["capacity"])
		assert.Equal(t, "SPORTS", w.body["category"])
		assert.Equal(t, "2026-06-01T07:00:00Z", w.body["startDateTime"])
		assert.Equal(t, "Riverside Park", w.body["location"].(map[string]any)["address"])
	})

	t.Run("update without changes is a usage error", func(t *testing.T) {
		res := execute(t, srv.URL, "", "event", "update", "e1")
		assert.Equal(t, ExitCommandError, res.code)
	})

	t.Run("update of an unknown event", func(t *testing.T) {
		res := execute(t, srv.URL, "", "event", "update", "nope", "--capacity", "5")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "Error [not_found]")
	})

	t.Run("delete", func(t *testing.T) {
		res := execute(t, srv.URL, "", "event", "delete", "e1")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "Deleted event e1\n", res.stdout)

		res = execute(t, srv.URL, "", "event", "delete", "gone")
		assert.Equal(t, ExitFailure, res.code)
	})

	t.Run("photo", func(t *testing.T) {
		res := execute(t, srv.URL, "", "event", "photo", "e1", "https://img/1.jpg")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "Event e1 has 2 photos\n", res.stdout)

		writes := b.recorded()
		assert.Equal(t, "https://img/1.jpg", writes[len(writes)-1].body["url"])

		res = execute(t, srv.URL, "", "event", "photo", "e1", "file:///etc/passwd")
		assert.Equal(t, ExitCommandError, res.code)
	})
}

func TestCommunityWriteCommands(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	t.Run("create", func(t *testing.T) {
		res := execute(t, srv.URL, "", "communities", "create", "--name", "Hudson Runners", "--type", "hobby", "--at", "40.74,-74.03")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "Created community Hudson Runners (k1)\n", res.stdout)

		writes := b.recorded()
		w := writes[len(writes)-1]
		assert.Equal(t, "/api/v1/communities", w.path)
		assert.Equal(t, "HOBBY", w.body["type"])
		assert.Equal(t, []any{-74.03, 40.74}, w.body["location"].(map[string]any)["coordinates"])
	})

	t.Run("create with an unknown type", func(t *testing.T) {
		res := execute(t, srv.URL, "", "communities", "create", "--name", "x", "--type", "club")
		assert.Equal(t, ExitCommandError, res.code)
	})

	t.Run("events", func(t *testing.T) {
		res := execute(t, srv.URL, "", "communities", "events", "k1")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Climbing")
		assert.NotContains(t, res.stdout, "Page")
	})

	t.Run("invite", func(t *testing.T) {
		res := execute(t, srv.URL, "", "communities", "invite", "k1", "grace@example.com")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		writes := b.recorded()
		assert.Equal(t, "grace@example.com", writes[len(writes)-1].body["email"])

		res = execute(t, srv.URL, "", "communities", "invite", "k1", "grace")
		assert.Equal(t, ExitCommandError, res.code)
	})

	t.Run("remove", func(t *testing.T) {
		res := execute(t, srv.URL, "", "communities", "remove", "k1", "u2")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		writes := b.recorded()
		assert.Equal(t, http.MethodDelete, writes[len(writes)-1].method)
		assert.Equal(t, "/api/v1/communities/k1/members/u2", writes[len(writes)-1].path)

		res = execute(t, srv.URL, "", "communities", "remove", "k1", "u1")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "Error [rejected]")
	})
}

func TestRSVPCommand(t *testing.T) {
	srv := (&fakeBackend{}).server()
	defer srv.Close()

	t.Run("tracks the event and applies the change", func(t *testing.T) {
		res := execute(t, srv.URL, "", "rsvp", "e1", "going")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "RSVP Going for e1 (5/30)\n", res.stdout)
	})

	t.Run("unknown event fails", func(t *testing.T) {
		res := execute(t, srv.URL, "", "--format", "json", "rsvp", "nope", "going")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stdout, `"code": "not_found"`)
	})

	t.Run("unknown status is a usage error", func(t *testing.T) {
		res := execute(t, srv.URL, "", "rsvp", "e1", "attending")
		assert.Equal(t, ExitCommandError, res.code)
	})

	t.Run("wrong arity is a usage error", func(t *testing.T) {
		res := execute(t, srv.URL, "", "rsvp", "e1")
		assert.Equal(t, ExitCommandError, res.code)
	})
}

func TestCheckInCommand(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	res := execute(t, srv.URL, "", "--format", "json", "checkin", "e1", "u1", "u2", "ghost")
	assert.Equal(t, ExitFailure, res.code)

	var rows []checkInRow
	decodeData(t, res.stdout, &rows)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].OK)
	assert.True(t, rows[1].OK)
	assert.False(t, rows[2].OK)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{"u1"}, b.checkIns, "already checked-in and unknown users are not written")
}

func TestScanCommand(t *testing.T) {
	srv := (&fakeBackend{}).server()
	defer srv.Close()

	t.Run("single code", func(t *testing.T) {
		res := execute(t, srv.URL, "", "scan", "e1", "TICKET-1")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "Checked in Grace\n", res.stdout)
	})

	t.Run("a held code is submitted once", func(t *testing.T) {
		res := execute(t, srv.URL, "TICKET-1\nTICKET-1\n\nTICKET-1\n", "--format", "json", "scan", "e1")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		var rows []scanRow
		decodeData(t, res.stdout, &rows)
		require.Len(t, rows, 3)
		assert.Equal(t, "ok", rows[0].Result)
		assert.Equal(t, "dropped", rows[1].Result)
		assert.Equal(t, "dropped", rows[2].Result)
	})

	t.Run("rejected code", func(t *testing.T) {
		res := execute(t, srv.URL, "", "scan", "e1", "BOGUS")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "Error [rejected]")
	})
}

func TestCommentsCommand(t *testing.T) {
	b := &fakeBackend{}
	srv := b.server()
	defer srv.Close()

	t.Run("list shows nested replies", func(t *testing.T) {
		res := execute(t, srv.URL, "", "comments", "list", "e1")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "[c1] Ada: Is parking free?\n  [c2] Grace: Yes\n", res.stdout)
	})

	t.Run("reply to a nested comment", func(t *testing.T) {
		res := execute(t, srv.URL, "", "comments", "reply", "e1", "c2", "see", "you", "there")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Equal(t, "Posted comment c9\n", res.stdout)

		b.mu.Lock()
		defer b.mu.Unlock()
		require.Len(t, b.posted, 1)
		assert.Equal(t, "see you there", b.posted[0]["message"])
		assert.Equal(t, "c2", b.posted[0]["parentId"])
	})

	t.Run("reply to an unknown comment", func(t *testing.T) {
		res := execute(t, srv.URL, "", "comments", "reply", "e1", "c404", "hello")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "Error [not_found]")
	})
}

func TestNotificationsCommand(t *testing.T) {
	srv := (&fakeBackend{}).server()
	defer srv.Close()

	res := execute(t, srv.URL, "", "--format", "yaml", "notifications", "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "status: ok")
	assert.Contains(t, res.stdout, "unreadCount: 1")
	assert.Contains(t, res.stdout, "title: You're invited")
}

func TestInvalidFormat(t *testing.T) {
	res := execute(t, "http://127.0.0.1:1", "", "--format", "xml", "discover")
	assert.Equal(t, ExitCommandError, res.code)
}
