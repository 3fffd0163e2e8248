// Package suggest asks a text-generation model for good time slots for a new
// activity, given the current schedule and a free-text productivity profile.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

var (
	ErrSuggestionFailed = errors.New("suggest: failed to get suggestions from AI")
	ErrInvalidRequest   = errors.New("suggest: invalid request")
)

const (
	MinActivityLength = 5
	MinPatternsLength = 10
)

const DefaultProductivityPatterns = "I'm a morning person. My energy is highest from 9 AM to 12 PM. " +
	"I experience a slump after lunch, from 1 PM to 3 PM. My energy picks up again from 3 PM to 5 PM " +
	"for less demanding tasks. Evenings are for relaxing."

const promptText = `You are an AI assistant specialized in scheduling and time management. Given the description of an activity, the user's existing schedule, and their typical productivity patterns, suggest the optimal times for the new activity.

Activity Description: {{.ActivityDescription}}

Existing Schedule: {{.ExistingSchedule}}

User Productivity Patterns: {{.UserProductivityPatterns}}

Consider the existing schedule to avoid conflicts and the productivity patterns to suggest times when the user is most likely to be productive. Output the suggested times as a JSON string and include a brief explanation of your reasoning.

Output the suggested times as a JSON string array.
`

var promptTemplate = template.Must(template.New("suggest").Parse(promptText))

// Request carries the three prompt inputs. ExistingSchedule is the JSON task
// list of the active schedule.
type Request struct {
	ActivityDescription      string `json:"activityDescription"`
	ExistingSchedule         string `json:"existingSchedule"`
	UserProductivityPatterns string `json:"userProductivityPatterns"`
}

// Problems lists the form messages for every field that is too short.
func (r Request) Problems() []string {
	var out []string
	if utf8.RuneCountInString(strings.TrimSpace(r.ActivityDescription)) < MinActivityLength {
		out = append(out, "Please describe the activity in more detail.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.UserProductivityPatterns)) < MinPatternsLength {
		out = append(out, "Please describe your productivity patterns.")
	}
	return out
}

func (r Request) Validate() error {
	if problems := r.Problems(); len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, " "))
	}
	return nil
}

// Output is the raw two-field answer. SuggestedTimes is itself JSON text.
type Output struct {
	SuggestedTimes string `json:"suggestedTimes"`
	Reasoning      string `json:"reasoning"`
}

// Result is Output with the time list decoded for display.
type Result struct {
	Times     []string `json:"times"`
	Reasoning string   `json:"reasoning"`
}

// Field describes one string property of the structured answer.
type Field struct {
	Name        string
	Description string
}

// Schema constrains the generator to an object of required string fields.
type Schema struct {
	Fields []Field
}

// OutputSchema is the schema every generation is constrained to.
var OutputSchema = Schema{Fields: []Field{
	{Name: "suggestedTimes", Description: "A JSON string representing the suggested optimal times for the activity."},
	{Name: "reasoning", Description: "The AI reasoning behind the suggested times."},
}}

// Generator produces the JSON text of an answer conforming to schema.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema Schema) (string, error)
}

type Client struct {
	gen     Generator
	timeout time.Duration
}

// NewClient wraps gen. A positive timeout bounds every call.
func NewClient(gen Generator, timeout time.Duration) *Client {
	return &Client{gen: gen, timeout: timeout}
}

func RenderPrompt(req Request) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, req); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Suggest validates req, runs one generation and decodes the answer. Every
// failure after validation is reported as ErrSuggestionFailed; the cause is
// only logged. There is no retry.
func (c *Client) Suggest(ctx context.Context, req Request) (Output, error) {
	if err := req.Validate(); err != nil {
		return Output{}, err
	}
	if c == nil || c.gen == nil {
		log.Printf("suggest: no generator configured")
		return Output{}, ErrSuggestionFailed
	}
	prompt, err := RenderPrompt(req)
	if err != nil {
		log.Printf("suggest: render prompt: %v", err)
		return Output{}, ErrSuggestionFailed
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.gen.Generate(ctx, prompt, OutputSchema)
	if err != nil {
		log.Printf("suggest: generate: %v", err)
		return Output{}, ErrSuggestionFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("suggest: empty response")
		return Output{}, ErrSuggestionFailed
	}
	var out Output
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		log.Printf("suggest: decode response: %v", err)
		return Output{}, ErrSuggestionFailed
	}
	if out == (Output{}) {
		log.Printf("suggest: response has no fields")
		return Output{}, ErrSuggestionFailed
	}
	return out, nil
}

// DecodeTimes parses SuggestedTimes. Malformed input means no suggestions.
func DecodeTimes(out Output) Result {
	res := Result{Reasoning: out.Reasoning}
	var times []string
	if err := json.Unmarshal([]byte(out.SuggestedTimes), &times); err != nil {
		return res
	}
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			res.Times = append(res.Times, t)
		}
	}
	return res
}
