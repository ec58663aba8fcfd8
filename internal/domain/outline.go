package domain

import (
	"strings"
	"time"
)

// Outline is a sermon outline: a title, the main passage, free-form notes,
// and the scripture topics collected while studying.
type Outline struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Passage   string    `json:"passage,omitempty"` // Main reference, e.g. "João 3:16"
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	Topics    []Topic   `json:"topics"` // Newest first
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Topic is a verse attached to an outline.
type Topic struct {
	Reference   string    `json:"reference"`
	Book        string    `json:"book"`
	Chapter     int       `json:"chapter"`
	Verse       int       `json:"verse"`
	Text        string    `json:"text,omitempty"`
	Translation string    `json:"translation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Touch updates the UpdatedAt timestamp.
func (o *Outline) Touch() {
	o.UpdatedAt = time.Now()
}

// AddTopic prepends a topic so the list stays newest-first.
func (o *Outline) AddTopic(t Topic) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	o.Topics = append([]Topic{t}, o.Topics...)
	o.Touch()
}

// RemoveTopic removes the topic at index. Out-of-range indexes leave the topics unchanged
// but still count as a modification. It reports whether a topic was removed.
func (o *Outline) RemoveTopic(index int) bool {
	o.Touch()
	if index < 0 || index >= len(o.Topics) {
		return false
	}
	o.Topics = append(o.Topics[:index:index], o.Topics[index+1:]...)
	return true
}

// NormalizeTags trims, lowercases and de-duplicates tags, dropping a leading '#'.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
