package shell

import (
	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/vfs"
)

// Session is the state of one terminal session. It is not safe for
// concurrent use; Console serializes access to it.
type Session struct {
	transcript []termfolio.Record
	cwd        string
	// history is most-recent-first.
	history []string
	// cursor is the recall position into history, -1 when not navigating.
	cursor int
	nextID int
	muted  bool
}

// NewSession returns an empty session rooted at the filesystem root.
func NewSession() *Session {
	return &Session{cwd: vfs.Root, cursor: -1, nextID: 1}
}

// Transcript returns a copy of the transcript records.
func (s *Session) Transcript() []termfolio.Record {
	out := make([]termfolio.Record, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Cwd returns the working directory.
func (s *Session) Cwd() string { return s.cwd }

// History returns a copy of the submitted lines, most recent first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Cursor returns the history recall position.
func (s *Session) Cursor() int { return s.cursor }

// Muted reports whether audio cues are suppressed.
func (s *Session) Muted() bool { return s.muted }

// SetMuted sets the mute flag.
func (s *Session) SetMuted(muted bool) { s.muted = muted }

// Reset returns the session to its initial state. The mute flag survives,
// and record IDs keep increasing so late updates for discarded records
// never match a new one.
func (s *Session) Reset() {
	s.transcript = nil
	s.cwd = vfs.Root
	s.history = nil
	s.cursor = -1
}

func (s *Session) peekID() int { return s.nextID }

func (s *Session) appendRecord(input string, out *termfolio.Output) termfolio.Record {
	rec := termfolio.Record{ID: s.nextID, Input: input, Output: out}
	s.nextID++
	s.transcript = append(s.transcript, rec)
	return rec
}

func (s *Session) clearTranscript() {
	s.transcript = nil
}

// record returns the transcript record with the given ID, or nil when it
// was cleared.
func (s *Session) record(id int) *termfolio.Record {
	for i := range s.transcript {
		if s.transcript[i].ID == id {
			return &s.transcript[i]
		}
	}
	return nil
}

// pushHistory records a submitted line unless it repeats the latest entry.
func (s *Session) pushHistory(line string) {
	if len(s.history) > 0 && s.history[0] == line {
		return
	}
	s.history = append([]string{line}, s.history...)
}
