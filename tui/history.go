package tui

import "slices"

// History keeps submitted command lines, newest last. Browsing starts from
// whatever is being typed; stepping past the newest line gives that draft
// back.
type History struct {
	lines []string
	limit int
	pos   int // len(lines) when not browsing
	draft string
}

// NewHistory creates a history that keeps the last limit lines.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.lines) }

// Add stores a submitted line and stops browsing. A line that is already
// stored moves to the newest position instead of appearing twice.
func (h *History) Add(line string) {
	if i := slices.Index(h.lines, line); i >= 0 {
		h.lines = slices.Delete(h.lines, i, i+1)
	}
	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.limit; over > 0 {
		h.lines = slices.Delete(h.lines, 0, over)
	}
	h.Leave()
}

// Back steps to the next older line. current is kept as the draft when
// browsing starts. It returns false at the oldest line.
func (h *History) Back(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.lines) {
		h.draft = current
	}
	h.pos--
	return h.lines[h.pos], true
}

// Forward steps to the next newer line, ending on the draft. It returns
// false when not browsing.
func (h *History) Forward() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return h.draft, true
	}
	return h.lines[h.pos], true
}

// Leave stops browsing and drops the draft.
func (h *History) Leave() {
	h.pos = len(h.lines)
	h.draft = ""
}
