package robot

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/stuartlink/internal/geometry"
)

// polar is shorthand for building commands in tests.
func polar(angle, distance float64) geometry.Polar {
	return geometry.Polar{Angle: angle, Distance: distance}
}

// capture records one request seen by the fake robot server.
type capture struct {
	path        string
	contentType string
	body        string
}

// fakeRobot is an httptest-backed robot control server.
type fakeRobot struct {
	mu       sync.Mutex
	requests []capture
	status   int
	reply    string
}

// handler records the request and writes the canned reply.
func (f *fakeRobot) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, capture{
		path:        r.URL.Path,
		contentType: r.Header.Get("Content-Type"),
		body:        string(body),
	})
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	reply := f.reply
	if reply == "" {
		reply = `{"status":"OK"}`
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

// newTestClient spins up the fake robot and a client pointed at it.
func newTestClient(t *testing.T, f *fakeRobot, enc Encoding) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, enc, time.Second, log.New(io.Discard, "", 0))
}

// TestMove_FormEncoding verifies the default form body and route.
func TestMove_FormEncoding(t *testing.T) {
	f := &fakeRobot{}
	c := newTestClient(t, f, EncodingForm)

	if err := c.Move(context.Background(), polar(45, 120)); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	req := f.requests[0]
	if req.path != "/move" {
		t.Fatalf("expected /move, got %s", req.path)
	}
	if req.contentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %s", req.contentType)
	}
	values, err := url.ParseQuery(req.body)
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if values.Get("angle") != "45" || values.Get("distance") != "120" {
		t.Fatalf("unexpected fields %v", values)
	}
}

// TestMove_JSONEncoding verifies the JSON transport option.
func TestMove_JSONEncoding(t *testing.T) {
	f := &fakeRobot{}
	c := newTestClient(t, f, EncodingJSON)

	if err := c.Move(context.Background(), polar(-90, 100)); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	req := f.requests[0]
	if req.contentType != "application/json" {
		t.Fatalf("unexpected content type %s", req.contentType)
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(req.body), &fields); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if fields["angle"] != "-90" || fields["distance"] != "100" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

// TestAction_Routes verifies action name to route mapping.
func TestAction_Routes(t *testing.T) {
	f := &fakeRobot{}
	c := newTestClient(t, f, EncodingForm)

	if err := c.Action(context.Background(), ActionMakeCoffee, ""); err != nil {
		t.Fatalf("make_coffee failed: %v", err)
	}
	if err := c.Action(context.Background(), ActionSayPhrase, "3"); err != nil {
		t.Fatalf("say_phrase failed: %v", err)
	}
	if err := c.Action(context.Background(), "wave", ""); err != nil {
		t.Fatalf("wave failed: %v", err)
	}

	paths := []string{f.requests[0].path, f.requests[1].path, f.requests[2].path}
	want := []string{"/make_coffee", "/say_phrase", "/action/wave"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("request %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
	if !strings.Contains(f.requests[1].body, "value=3") {
		t.Fatalf("expected phrase value in body, got %q", f.requests[1].body)
	}
	if f.requests[0].body != "" {
		t.Fatalf("expected empty coffee body, got %q", f.requests[0].body)
	}
}

// TestPost_NonSuccessStatus verifies non-2xx surfaces as an error with the
// body excerpt.
func TestPost_NonSuccessStatus(t *testing.T) {
	f := &fakeRobot{status: http.StatusServiceUnavailable, reply: `{"error":"busy brewing"}`}
	c := newTestClient(t, f, EncodingForm)

	err := c.Move(context.Background(), polar(0, 10))
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "busy brewing") {
		t.Fatalf("expected status and body in error, got %v", err)
	}
}

// TestPost_MalformedResponseBody verifies unparseable bodies count as failure.
func TestPost_MalformedResponseBody(t *testing.T) {
	f := &fakeRobot{reply: "OK"}
	c := newTestClient(t, f, EncodingForm)

	err := c.Move(context.Background(), polar(0, 10))
	if err == nil || !strings.Contains(err.Error(), "malformed response") {
		t.Fatalf("expected malformed-response error, got %v", err)
	}
}

// TestPost_ContextCancelled verifies the context is honored.
func TestPost_ContextCancelled(t *testing.T) {
	f := &fakeRobot{}
	c := newTestClient(t, f, EncodingForm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Move(ctx, polar(0, 10)); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
