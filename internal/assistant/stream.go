// Parser for the Messages API event stream. Events arrive as standard SSE
// frames; this file folds them back into a complete response while handing
// text deltas to the caller as they come in.

package assistant

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// streamEvent is the union of every event payload we care about. The event
// name on the SSE frame selects which fields are set.
type streamEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`

	ContentBlock *ContentBlock `json:"content_block"` // content_block_start

	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`         // text_delta
		PartialJSON string `json:"partial_json"` // input_json_delta
		StopReason  string `json:"stop_reason"`  // message_delta
	} `json:"delta"`

	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseStream consumes one SSE response body and reassembles the message.
// onDelta is called once per text fragment, in arrival order.
func parseStream(body io.Reader, onDelta func(string)) (*messagesResponse, error) {
	var (
		resp       messagesResponse
		blocks     []ContentBlock
		inputJSON  []strings.Builder // partial tool input per block index
		sawMessage bool
	)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue // event: lines and keep-alives carry no payload we need
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			return nil, fmt.Errorf("malformed stream event: %w", err)
		}

		switch ev.Type {
		case "message_start":
			sawMessage = true

		case "content_block_start":
			for len(blocks) <= ev.Index {
				blocks = append(blocks, ContentBlock{})
				inputJSON = append(inputJSON, strings.Builder{})
			}
			if ev.ContentBlock != nil {
				blocks[ev.Index] = *ev.ContentBlock
			}

		case "content_block_delta":
			if ev.Index >= len(blocks) {
				continue
			}
			switch ev.Delta.Type {
			case "text_delta":
				blocks[ev.Index].Text += ev.Delta.Text
				onDelta(ev.Delta.Text)
			case "input_json_delta":
				inputJSON[ev.Index].WriteString(ev.Delta.PartialJSON)
			}

		case "content_block_stop":
			if ev.Index < len(blocks) && blocks[ev.Index].Type == "tool_use" {
				raw := inputJSON[ev.Index].String()
				if raw == "" {
					raw = "{}"
				}
				blocks[ev.Index].Input = json.RawMessage(raw)
			}

		case "message_delta":
			if ev.Delta.StopReason != "" {
				resp.StopReason = ev.Delta.StopReason
			}

		case "error":
			return nil, fmt.Errorf("assistant stream error (%s): %s", ev.Error.Type, ev.Error.Message)

		case "message_stop", "ping":
			// nothing to do
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	if !sawMessage {
		return nil, fmt.Errorf("stream ended before message_start")
	}

	resp.Role = "assistant"
	resp.Content = blocks
	return &resp, nil
}
