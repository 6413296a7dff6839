// Package assistant talks to the text-generation endpoint behind the student
// support chat.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Primer is the hidden first turn of every conversation.
const Primer = "You are a supportive mental health assistant for students. Provide compassionate, helpful guidance while encouraging professional help when needed."

// PromptPrefix is prepended to the student's latest message.
const PromptPrefix = "As a mental health support assistant, please provide helpful guidance for: "

// Canned replies shown when the endpoint cannot answer.
const (
	MsgNotConfigured   = "The support assistant is not configured. Please contact campus support if you need help now."
	MsgInvalidResponse = "The API returned an invalid response. Please check your API configuration."
	MsgUnreachable     = "Unable to connect to the API. Please check your internet connection and API URL."
	MsgOverloaded      = "The AI is currently experiencing high demand. Please wait a moment and try again."
	MsgGeneric         = "I'm having trouble connecting right now. Please try again or contact campus support if urgent."
)

// QuickTopics are suggested conversation starters.
var QuickTopics = []string{
	"I'm feeling anxious about exams",
	"Help me with study stress",
	"I'm having trouble sleeping",
	"Feeling overwhelmed lately",
}

// Greeting opens every chat.
const Greeting = "Hey there 👋\nI'm here to support your mental health and wellbeing. Feel free to share what's on your mind, or click one of the common topics below to get started."

// Contact is an emergency resource shown next to the chat.
type Contact struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// EmergencyContacts are shown alongside every conversation.
var EmergencyContacts = []Contact{
	{Title: "Crisis Support", Detail: "If you're in crisis, call 988 (Suicide & Crisis Lifeline)"},
	{Title: "Campus Emergency", Detail: "24/7 Campus Safety: (555) 123-4567"},
}

// Role is the speaker of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one chat turn.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Reply is the assistant's answer. IsError marks a canned failure message.
type Reply struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
	Outcome string `json:"-"`
}

// Outcomes recorded for each reply.
const (
	OutcomeOK            = "ok"
	OutcomeNotConfigured = "not_configured"
	OutcomeInvalid       = "invalid_response"
	OutcomeUnreachable   = "unreachable"
	OutcomeOverloaded    = "overloaded"
	OutcomeUpstream      = "upstream_error"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

var boldMarkers = regexp.MustCompile(`\*\*(.*?)\*\*`)

// Client calls the text-generation endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client posting to url. An empty url yields a client
// that always answers MsgNotConfigured.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Reply sends history plus message and returns the assistant's answer.
// Failures never surface as errors; they come back as a canned Reply with IsError set.
func (c *Client) Reply(ctx context.Context, history []Message, message string) Reply {
	if !c.Configured() {
		return Reply{Text: MsgNotConfigured, IsError: true, Outcome: OutcomeNotConfigured}
	}

	text, err := c.generate(ctx, buildContents(history, message))
	if err != nil {
		log.Warn().Err(err).Msg("Assistant request failed")
		return classify(err)
	}
	return Reply{Text: text, Outcome: OutcomeOK}
}

func buildContents(history []Message, message string) []content {
	contents := make([]content, 0, len(history)+2)
	contents = append(contents, content{Role: string(RoleModel), Parts: []part{{Text: Primer}}})
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := RoleUser
		if m.Role == RoleModel {
			role = RoleModel
		}
		contents = append(contents, content{Role: string(role), Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: string(RoleUser), Parts: []part{{Text: PromptPrefix + message}}})
	return contents
}

// Failure kinds, matched by classify.
var (
	errInvalidResponse = errors.New("invalid response")
	errUnreachable     = errors.New("unreachable")
)

type upstreamError struct {
	message string
}

func (e *upstreamError) Error() string {
	return e.message
}

func (c *Client) generate(ctx context.Context, contents []content) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUnreachable, err)
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("%w: expected JSON but got %q: %s", errInvalidResponse, mediaType, snippet)
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if data.Error != nil && data.Error.Message != "" {
			return "", &upstreamError{message: data.Error.Message}
		}
		return "", &upstreamError{message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}

	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: missing candidates", errInvalidResponse)
	}

	text := boldMarkers.ReplaceAllString(data.Candidates[0].Content.Parts[0].Text, "$1")
	return strings.TrimSpace(text), nil
}

func classify(err error) Reply {
	switch {
	case errors.Is(err, errInvalidResponse):
		return Reply{Text: MsgInvalidResponse, IsError: true, Outcome: OutcomeInvalid}
	case errors.Is(err, errUnreachable):
		return Reply{Text: MsgUnreachable, IsError: true, Outcome: OutcomeUnreachable}
	}

	var upstream *upstreamError
	if errors.As(err, &upstream) {
		lower := strings.ToLower(upstream.message)
		if strings.Contains(lower, "overloaded") || strings.Contains(lower, "busy") {
			return Reply{Text: MsgOverloaded, IsError: true, Outcome: OutcomeOverloaded}
		}
		return Reply{Text: upstream.message, IsError: true, Outcome: OutcomeUpstream}
	}
	return Reply{Text: MsgGeneric, IsError: true, Outcome: OutcomeUpstream}
}
