package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalid marks a story document that cannot drive a render.
var ErrInvalid = errors.New("invalid story")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Story is the generated narrative.
type Story struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Load reads and validates the story document at path.
func Load(path string) (Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Story{}, fmt.Errorf("read story: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a story document.
func Parse(data []byte) (Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		return Story{}, fmt.Errorf("parse story: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Story{}, err
	}
	return s, nil
}

// Validate requires a title with at least one non-space character.
func (s Story) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalid)
	}
	return nil
}

// NarrationText is the text sent to speech synthesis: the title read as its
// own sentence followed by the body.
func (s Story) NarrationText() string {
	title := strings.TrimSpace(s.Title)
	content := strings.TrimSpace(s.Content)
	if content == "" {
		return title + "."
	}
	return title + ". " + content
}

// Hashtags renders tags as "#tag" with inner whitespace runs turned into
// underscores. Blank tags are dropped.
func (s Story) Hashtags() []string {
	out := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		out = append(out, "#"+whitespaceRun.ReplaceAllString(tag, "_"))
	}
	return out
}

// PublishText is the post body: the title, a blank line, then the hashtags.
func (s Story) PublishText() string {
	tags := s.Hashtags()
	if len(tags) == 0 {
		return s.Title
	}
	return s.Title + "\n\n" + strings.Join(tags, " ")
}

// DisplayTitle title-cases the story title for tables and logs.
func (s Story) DisplayTitle() string {
	return cases.Title(language.English, cases.NoLower).String(strings.TrimSpace(s.Title))
}
