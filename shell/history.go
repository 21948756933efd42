package shell

// Direction selects which way a history recall moves.
type Direction int

const (
	// Older moves toward earlier submissions (Up).
	Older Direction = iota
	// Newer moves toward later submissions (Down).
	Newer
)

// Recall computes the next cursor and input buffer for a recall over a
// most-recent-first history. changed is false when the buffer must be left
// alone.
func Recall(history []string, cursor int, dir Direction) (next int, buffer string, changed bool) {
	switch dir {
	case Older:
		if len(history) == 0 {
			return cursor, "", false
		}
		next = min(cursor+1, len(history)-1)
		return next, history[next], true
	case Newer:
		switch {
		case cursor > 0 && cursor <= len(history):
			return cursor - 1, history[cursor-1], true
		case cursor == 0:
			return -1, "", true
		}
	}
	return cursor, "", false
}

// Recall moves the session's history cursor and returns the buffer to show.
func (s *Session) Recall(dir Direction) (string, bool) {
	next, buffer, changed := Recall(s.history, s.cursor, dir)
	s.cursor = next
	return buffer, changed
}

// Edit records a direct edit of the input buffer.
func (s *Session) Edit() {
	s.cursor = -1
}
