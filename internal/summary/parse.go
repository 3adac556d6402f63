package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Reply is the structured part of a summarization response.
type Reply struct {
	Title       string
	SectionText string
}

// Models return JSON wrapped in prose or code fences more often than not.
// The greedy DOTALL match takes the outermost brace-delimited region.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the JSON object out of a free-text model reply.
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	raw := jsonObjectRe.FindString(content)
	if raw == "" {
		return "", errors.New("no JSON object in reply")
	}
	return raw, nil
}

// parseReply recovers the summary object from a model reply. An absent or
// unparseable object fails the whole call; the caller substitutes a
// placeholder for that partition.
func parseReply(content string) (Reply, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return Reply{}, err
	}

	var parsed struct {
		Summary struct {
			Title       string `json:"title"`
			SectionText string `json:"section_text"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Reply{}, fmt.Errorf("parse summary json: %w", err)
	}
	if parsed.Summary.Title == "" && parsed.Summary.SectionText == "" {
		return Reply{}, errors.New("reply has no summary object")
	}
	return Reply{
		Title:       parsed.Summary.Title,
		SectionText: parsed.Summary.SectionText,
	}, nil
}

// parseFact recovers the fact string from a model reply.
func parseFact(content string) (string, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Fact string `json:"fact"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("parse fact json: %w", err)
	}
	if parsed.Fact == "" {
		return "", errors.New("reply has no fact")
	}
	return parsed.Fact, nil
}
