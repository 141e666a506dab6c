// Client for the Anthropic Messages API. Sessions are stateless on the API
// side, so each call replays the conversation history and appends the new
// turns to it.

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"

	// DefaultModel is used when a session requests no override.
	DefaultModel = "claude-sonnet-4-5"

	maxTokens = 1024

	// maxToolRounds bounds the tool-use loop so a misbehaving model cannot
	// keep the relay spinning forever.
	maxToolRounds = 8
)

// Client wraps the Anthropic API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new assistant client. The model is the default for
// conversations that do not override it.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{}, // streaming responses outlive any fixed timeout
	}
}

// SetBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Stream sends one user message on the conversation and returns the full
// assistant reply, invoking onDelta for every incremental text fragment as it
// arrives. Tool calls requested by the model are executed locally and fed
// back until the model produces a final answer. The conversation history is
// extended with every turn, including tool traffic.
func (c *Client) Stream(ctx context.Context, conv *Conversation, message string, onDelta func(string)) (string, error) {
	conv.Messages = append(conv.Messages, Message{
		Role:    "user",
		Content: []ContentBlock{{Type: "text", Text: message}},
	})

	var full string
	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.doStream(ctx, conv, onDelta)
		if err != nil {
			return full, err
		}

		conv.Messages = append(conv.Messages, Message{Role: "assistant", Content: resp.Content})
		for _, block := range resp.Content {
			if block.Type == "text" {
				full += block.Text
			}
		}

		if resp.StopReason != "tool_use" {
			return full, nil
		}

		results, err := c.runTools(ctx, conv.Tools, resp.Content)
		if err != nil {
			return full, err
		}
		conv.Messages = append(conv.Messages, Message{Role: "user", Content: results})
	}
	return full, fmt.Errorf("assistant exceeded %d tool rounds", maxToolRounds)
}

// Complete sends a single prompt with no tools or history and returns the
// text reply. Used for one-shot calls that need no streaming.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	conv := &Conversation{Model: c.model}
	return c.Stream(ctx, conv, prompt, func(string) {})
}

// runTools executes every tool_use block and collects tool_result blocks for
// the follow-up turn. A failing tool reports its error to the model instead
// of aborting the reply.
func (c *Client) runTools(ctx context.Context, tools []Tool, blocks []ContentBlock) ([]ContentBlock, error) {
	var results []ContentBlock
	for _, block := range blocks {
		if block.Type != "tool_use" {
			continue
		}
		results = append(results, c.runTool(ctx, tools, block))
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("stop_reason was tool_use but no tool_use block found")
	}
	return results, nil
}

func (c *Client) runTool(ctx context.Context, tools []Tool, block ContentBlock) ContentBlock {
	result := ContentBlock{Type: "tool_result", ToolUseID: block.ID}

	var tool *Tool
	for i := range tools {
		if tools[i].Name == block.Name {
			tool = &tools[i]
			break
		}
	}
	if tool == nil {
		result.Content = fmt.Sprintf("unknown tool %q", block.Name)
		result.IsError = true
		return result
	}

	out, err := tool.Run(ctx, block.Input)
	if err != nil {
		log.Printf("assistant: tool %s failed: %v", block.Name, err)
		result.Content = err.Error()
		result.IsError = true
		return result
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		result.Content = fmt.Sprintf("failed to encode tool result: %v", err)
		result.IsError = true
		return result
	}
	result.Content = string(encoded)
	return result
}

// doStream performs one streaming Messages API call and assembles the
// response from its event stream. Rate-limited and overloaded responses are
// retried with exponential backoff before the stream is established.
func (c *Client) doStream(ctx context.Context, conv *Conversation, onDelta func(string)) (*messagesResponse, error) {
	model := conv.Model
	if model == "" {
		model = c.model
	}

	params := make([]toolParam, 0, len(conv.Tools))
	for _, t := range conv.Tools {
		params = append(params, toolParam{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}

	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    conv.System,
		Messages:  conv.Messages,
		Tools:     params,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp *http.Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)
		req.Header.Set("Accept", "text/event-stream")

		r, err := c.httpClient.Do(req)
		if err != nil {
			return backoff.Permanent(err)
		}
		// 429 and 529 are transient; everything else is final.
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode == 529 {
			r.Body.Close()
			return fmt.Errorf("assistant API transient error: %s", r.Status)
		}
		resp = r
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.RetryNotify(operation, policy, backoffNotice); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("assistant API error (%s): %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("assistant API error: %s", resp.Status)
	}

	return parseStream(resp.Body, onDelta)
}

// backoffNotice logs retry waits; handy when diagnosing rate limiting.
func backoffNotice(err error, wait time.Duration) {
	log.Printf("assistant: transient API failure, retrying in %s: %v", wait, err)
}
