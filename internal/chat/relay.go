// The relay bridges one browser tab to one assistant conversation, pushing
// model output to the client as Server-Sent Events. Two branches run per
// message: a token-forwarding branch that writes each delta the instant it
// arrives, and a result branch that waits (bounded) for the complete reply.
// When the transport produced no deltas at all, the final reply is replayed
// word by word so the UI still types instead of popping.

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tejasnaik/watcharr/internal/assistant"
)

// Streamer produces one assistant reply on a conversation, invoking onDelta
// for every incremental text fragment.
type Streamer interface {
	Stream(ctx context.Context, conv *assistant.Conversation, message string, onDelta func(string)) (string, error)
}

// Event is one SSE payload: delta, done, or error.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// Relay forwards assistant output over SSE.
type Relay struct {
	streamer Streamer

	// Timeout bounds the wait for the complete assistant reply.
	Timeout time.Duration
	// FallbackDelay paces the synthesized word-by-word stream.
	FallbackDelay time.Duration
}

// NewRelay creates a relay around the given streamer.
func NewRelay(streamer Streamer) *Relay {
	return &Relay{
		streamer:      streamer,
		Timeout:       90 * time.Second,
		FallbackDelay: 20 * time.Millisecond,
	}
}

// ServeMessage runs one message exchange over an SSE response. Whatever
// happens, the stream is terminated with a done event so the client never
// hangs in a loading state. The request context cancels forwarding when the
// client disconnects; Go's HTTP server already disables Nagle's algorithm on
// accepted connections, so each flushed event goes out immediately.
func (r *Relay) ServeMessage(ctx context.Context, w http.ResponseWriter, sess *Session, message string) {
	// One exchange at a time per session: the streamer appends to the
	// conversation history, so concurrent messages on the same id would
	// race on the slice.
	sess.Lock()
	defer sess.Unlock()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	send := func(ev Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	callCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	deltas := make(chan string, 64)
	type outcome struct {
		text string
		err  error
	}
	resultCh := make(chan outcome, 1)

	go func() {
		text, err := r.streamer.Stream(callCtx, sess.Conv, message, func(d string) {
			select {
			case deltas <- d:
			case <-callCtx.Done():
			}
		})
		close(deltas)
		resultCh <- outcome{text: text, err: err}
	}()

	// Forwarding branch: write deltas until the streamer finishes. The
	// timer is a hard stop for streamers that ignore context cancellation.
	timer := time.NewTimer(r.Timeout + time.Second)
	defer timer.Stop()

	seen := 0
forward:
	for {
		select {
		case d, open := <-deltas:
			if !open {
				break forward
			}
			seen++
			send(Event{Type: "delta", Content: d})
		case <-timer.C:
			send(Event{Type: "error", Message: "assistant timed out"})
			send(Event{Type: "done"})
			return
		case <-ctx.Done():
			// Client went away; nothing left to write to.
			return
		}
	}

	out := <-resultCh
	if out.err != nil {
		log.Printf("chat: assistant call failed: %v", out.err)
		send(Event{Type: "error", Message: out.err.Error()})
		send(Event{Type: "done"})
		return
	}

	// Fallback branch: the transport streamed nothing, so synthesize the
	// typing effect from the complete reply. Only fires when zero deltas
	// were observed, which keeps the two branches from duplicating output.
	if seen == 0 {
		log.Println("chat: no delta events received, falling back to word-by-word streaming")
		text := out.text
		if text == "" {
			text = "No response received."
		}
		for _, word := range splitWords(text) {
			select {
			case <-ctx.Done():
				return
			default:
			}
			send(Event{Type: "delta", Content: word})
			time.Sleep(r.FallbackDelay)
		}
	}

	send(Event{Type: "done"})
}

// splitWords splits text into alternating word and whitespace tokens,
// preserving the original spacing when the tokens are concatenated.
func splitWords(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if i > 0 && isSpace != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		inSpace = isSpace
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
