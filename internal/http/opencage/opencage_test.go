package opencage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwise1/viff_planner/internal/model"
)

type fakeResult struct {
	lat, lng       float64
	placeType, cat string
	status         int
	delay          time.Duration
}

func newTestClient(t *testing.T, results map[string]fakeResult) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/geocode/v1/json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		res, ok := results[r.URL.Query().Get("q")]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
			return
		}
		time.Sleep(res.delay)
		if res.status != 0 {
			w.WriteHeader(res.status)
			return
		}

		components := map[string]string{}
		if res.placeType != "" {
			components["_type"] = res.placeType
		}
		if res.cat != "" {
			components["_category"] = res.cat
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []any{
				map[string]any{
					"geometry":   map[string]float64{"lat": res.lat, "lng": res.lng},
					"components": components,
				},
				map[string]any{
					"geometry": map[string]float64{"lat": 0, "lng": 0},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key").WithBaseURL(srv.URL)
	if err != nil {
		t.Fatalf("base url: %v", err)
	}
	return c, &calls
}

func TestResolveOne(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResult{
		"Rio Theatre": {lat: 49.2623, lng: -123.0695, placeType: "building", cat: "building"},
	})

	m, ok := c.ResolveOne(context.Background(), "Rio Theatre")
	if !ok {
		t.Fatalf("expected a result")
	}
	want := model.Marker{Name: "Rio Theatre", Latitude: 49.2623, Longitude: -123.0695, Type: "building", Category: "building"}
	if m != want {
		t.Fatalf("got %+v; want %+v", m, want)
	}
}

func TestResolveOneDefaultsClassification(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResult{
		"somewhere": {lat: 1, lng: 2},
	})

	m, ok := c.ResolveOne(context.Background(), "somewhere")
	if !ok {
		t.Fatalf("expected a result")
	}
	if m.Type != model.DefaultMarkerType || m.Category != model.DefaultMarkerCategory {
		t.Fatalf("expected defaults, got type=%q category=%q", m.Type, m.Category)
	}
}

func TestResolveOneNotFound(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResult{
		"broken": {status: http.StatusInternalServerError},
	})

	testCases := []string{"nowhere at all", "broken"}
	for _, q := range testCases {
		t.Run(q, func(t *testing.T) {
			if _, ok := c.ResolveOne(context.Background(), q); ok {
				t.Fatalf("expected not found for %q", q)
			}
		})
	}
}

func TestResolveOneTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient("test-key").WithBaseURL(srv.URL)
	if err != nil {
		t.Fatalf("base url: %v", err)
	}
	if _, ok := c.ResolveOne(context.Background(), "anything"); ok {
		t.Fatalf("expected not found when the server is unreachable")
	}
}

func TestResolveManyDropsFailures(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResult{
		"1181 Seymour St": {lat: 49.27, lng: -123.12},
		"1131 Howe St":    {status: http.StatusBadGateway},
		"1660 E Broadway": {lat: 49.26, lng: -123.07},
	})

	venues := []model.Venue{
		{Name: "VIFF Centre", Address: "1181 Seymour St"},
		{Name: "The Cinematheque", Address: "1131 Howe St"},
		{Name: "Rio Theatre", Address: "1660 E Broadway"},
	}

	markers := c.ResolveMany(context.Background(), venues)
	if len(markers) != 2 {
		t.Fatalf("got %d markers; want 2", len(markers))
	}
	if markers[0].Name != "VIFF Centre" || markers[1].Name != "Rio Theatre" {
		t.Fatalf("unexpected markers %+v", markers)
	}
}

func TestResolveManyPreservesInputOrder(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResult{
		"a": {lat: 1, lng: 1, delay: 60 * time.Millisecond},
		"b": {lat: 2, lng: 2, delay: 30 * time.Millisecond},
		"c": {lat: 3, lng: 3},
	})
	c.Concurrency = 3

	markers := c.ResolveMany(context.Background(), []model.Venue{
		{Name: "A", Address: "a"},
		{Name: "B", Address: "b"},
		{Name: "C", Address: "c"},
	})

	var names []string
	for _, m := range markers {
		names = append(names, m.Name)
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("order = %v; want [A B C]", names)
	}
}

func TestResolveManyIgnoresCancellation(t *testing.T) {
	c, calls := newTestClient(t, map[string]fakeResult{
		"a": {lat: 1, lng: 1, delay: 20 * time.Millisecond},
		"b": {lat: 2, lng: 2, delay: 20 * time.Millisecond},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	markers := c.ResolveMany(ctx, []model.Venue{{Name: "A", Address: "a"}, {Name: "B", Address: "b"}})
	if len(markers) != 2 {
		t.Fatalf("got %d markers; want 2", len(markers))
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Fatalf("server saw %d calls; want 2", got)
	}
}

func TestBuildURL(t *testing.T) {
	c := NewClient("k")
	limit := 1
	got, err := c.buildURL(geocodeEndpoint, &GeocodeQuery{Q: "88 W Pender St, Vancouver", Limit: &limit})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	want := "https://api.opencagedata.com/geocode/v1/json?key=k&limit=1&q=88+W+Pender+St%2C+Vancouver"
	if got != want {
		t.Fatalf("url = %s; want %s", got, want)
	}
}
