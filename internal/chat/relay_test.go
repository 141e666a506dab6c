package chat

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tejasnaik/watcharr/internal/assistant"
)

type fakeStreamer struct {
	fn func(ctx context.Context, onDelta func(string)) (string, error)
}

func (f *fakeStreamer) Stream(ctx context.Context, conv *assistant.Conversation, message string, onDelta func(string)) (string, error) {
	return f.fn(ctx, onDelta)
}

func serve(t *testing.T, relay *Relay) []Event {
	t.Helper()
	rr := httptest.NewRecorder()
	sess := &Session{Conv: &assistant.Conversation{}}
	relay.ServeMessage(context.Background(), rr, sess, "hello")

	var events []Event
	for _, line := range strings.Split(rr.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("Bad event payload %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestServeMessageForwardsDeltasThenDone(t *testing.T) {
	relay := NewRelay(&fakeStreamer{fn: func(ctx context.Context, onDelta func(string)) (string, error) {
		onDelta("one ")
		onDelta("two")
		return "one two", nil
	}})

	events := serve(t, relay)
	want := []Event{
		{Type: "delta", Content: "one "},
		{Type: "delta", Content: "two"},
		{Type: "done"},
	}
	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], events[i])
		}
	}
}

func TestServeMessageFallbackWhenNoDeltas(t *testing.T) {
	relay := NewRelay(&fakeStreamer{fn: func(ctx context.Context, onDelta func(string)) (string, error) {
		return "a b", nil
	}})
	relay.FallbackDelay = 0

	events := serve(t, relay)
	// "a", " ", "b" then done.
	if len(events) != 4 {
		t.Fatalf("Expected 4 events, got %v", events)
	}
	var text strings.Builder
	for _, ev := range events[:3] {
		if ev.Type != "delta" {
			t.Fatalf("Expected delta, got %+v", ev)
		}
		text.WriteString(ev.Content)
	}
	if text.String() != "a b" {
		t.Errorf("Fallback rebuilt %q", text.String())
	}
}

func TestServeMessageFallbackPlaceholderForEmptyReply(t *testing.T) {
	relay := NewRelay(&fakeStreamer{fn: func(ctx context.Context, onDelta func(string)) (string, error) {
		return "", nil
	}})
	relay.FallbackDelay = 0

	events := serve(t, relay)
	var text strings.Builder
	for _, ev := range events {
		text.WriteString(ev.Content)
	}
	if !strings.Contains(text.String(), "No response received.") {
		t.Errorf("Expected placeholder text, got %q", text.String())
	}
}

func TestServeMessageTimeoutSurfacesError(t *testing.T) {
	relay := NewRelay(&fakeStreamer{fn: func(ctx context.Context, onDelta func(string)) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}})
	relay.Timeout = 20 * time.Millisecond

	events := serve(t, relay)
	if len(events) != 2 {
		t.Fatalf("Expected error+done, got %v", events)
	}
	if events[0].Type != "error" {
		t.Errorf("Expected error event, got %+v", events[0])
	}
	if events[1].Type != "done" {
		t.Errorf("Expected done event, got %+v", events[1])
	}
}

func TestServeMessageSerializesPerSession(t *testing.T) {
	// The real client appends to conv.Messages on every call; concurrent
	// messages on one session must not race on the slice.
	streamer := &fakeStreamer{}
	relay := NewRelay(streamer)

	sess := &Session{Conv: &assistant.Conversation{}}
	streamer.fn = func(ctx context.Context, onDelta func(string)) (string, error) {
		sess.Conv.Messages = append(sess.Conv.Messages,
			assistant.Message{Role: "assistant", Content: []assistant.ContentBlock{{Type: "text", Text: "ok"}}})
		onDelta("ok")
		return "ok", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			relay.ServeMessage(context.Background(), rr, sess, "hello")
		}()
	}
	wg.Wait()

	if len(sess.Conv.Messages) != callers {
		t.Errorf("Expected %d history entries, got %d", callers, len(sess.Conv.Messages))
	}
}

func TestSplitWordsPreservesSpacing(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"word", 1},
		{"two words", 3},
		{"a\nb\tc", 5},
		{"  leading", 2},
	}
	for _, tc := range cases {
		tokens := splitWords(tc.in)
		if len(tokens) != tc.want {
			t.Errorf("splitWords(%q) = %d tokens, want %d", tc.in, len(tokens), tc.want)
		}
		if strings.Join(tokens, "") != tc.in {
			t.Errorf("splitWords(%q) is lossy: %q", tc.in, tokens)
		}
	}
}
