// Package termfolio defines the data model shared by the interpreter, the
// renderers and the session transports.
// Messages are JSON-encoded; the socket transport sends one per line and the
// WebSocket transport one per frame.
package termfolio

import "time"

// Cue is an audio cue kind played by the client.
type Cue string

const (
	CueKeystroke Cue = "keystroke"
	CueExecution Cue = "execution"
	CueError     Cue = "error"
	CueSuccess   Cue = "success"
)

// OutputKind tags the variant carried by an Output.
type OutputKind string

const (
	KindText        OutputKind = "text"
	KindInfo        OutputKind = "info"
	KindError       OutputKind = "error"
	KindHelp        OutputKind = "help"
	KindListing     OutputKind = "listing"
	KindFile        OutputKind = "file"
	KindMatches     OutputKind = "matches"
	KindHistory     OutputKind = "history"
	KindActivity    OutputKind = "activity"
	KindEnvironment OutputKind = "environment"
)

// Reason is a machine-readable error classification for KindError outputs.
type Reason string

const (
	ReasonUnknownCommand Reason = "unknown_command"
	ReasonNotFound       Reason = "not_found"
	ReasonNotDirectory   Reason = "not_a_directory"
	ReasonIsDirectory    Reason = "is_a_directory"
	ReasonUnreadable     Reason = "unreadable"
	ReasonUsage          Reason = "usage"
)

// EntryKind distinguishes directories from files in the virtual filesystem.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
)

// Entry is one named child of a virtual directory.
type Entry struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
}

// Section is a titled block of lines inside a text payload.
type Section struct {
	Heading string   `json:"heading,omitempty"`
	Lines   []string `json:"lines"`
}

// HelpEntry describes one command in the help listing.
type HelpEntry struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Summary string   `json:"summary"`
}

// Commit is one entry of the repository activity feed.
type Commit struct {
	SHA        string    `json:"sha"`
	URL        string    `json:"url"`
	Message    string    `json:"message"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Repository string    `json:"repository"`
}

// FeedStatus is the resolution state of an activity feed.
type FeedStatus string

const (
	FeedLoading FeedStatus = "loading"
	FeedReady   FeedStatus = "ready"
	FeedFailed  FeedStatus = "failed"
)

// ActivityFeed is the payload of a KindActivity output.
type ActivityFeed struct {
	Identity string     `json:"identity"`
	Status   FeedStatus `json:"status"`
	Commits  []Commit   `json:"commits"`
	// Error is a human-readable failure description when Status is FeedFailed.
	Error string `json:"error,omitempty"`
}

// Environment is a snapshot of the host's display and runtime attributes.
type Environment struct {
	OS             string `json:"os"`
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version,omitempty"`
	Resolution     string `json:"resolution"`
	ColorDepth     string `json:"color_depth"`
	CPUThreads     int    `json:"cpu_threads"`
	Language       string `json:"language"`
	TimeZone       string `json:"time_zone"`
	DeviceType     string `json:"device_type"`
	DarkMode       bool   `json:"dark_mode"`
	Memory         string `json:"memory,omitempty"`
	Uptime         string `json:"uptime,omitempty"`
	Logo           string `json:"logo"`
}

// Output is the tagged-variant payload of a command record. Only the fields
// belonging to Kind are populated.
type Output struct {
	Kind OutputKind `json:"kind"`

	// KindText, KindInfo, KindError, KindFile
	Title    string    `json:"title,omitempty"`
	Body     string    `json:"body,omitempty"`
	Sections []Section `json:"sections,omitempty"`

	// KindError
	Reason Reason `json:"reason,omitempty"`
	// Suggestion is the closest known command for unknown-command errors.
	Suggestion string `json:"suggestion,omitempty"`

	// KindListing, KindFile
	Path    string  `json:"path,omitempty"`
	Entries []Entry `json:"entries,omitempty"`

	// KindHelp
	Commands []HelpEntry `json:"commands,omitempty"`

	// KindMatches, KindHistory
	Items []string `json:"items,omitempty"`

	// KindActivity
	Activity *ActivityFeed `json:"activity,omitempty"`

	// KindEnvironment
	Environment *Environment `json:"environment,omitempty"`
}

// Record is one input/output pair of the transcript.
type Record struct {
	// ID is unique within a session and stable across asynchronous updates.
	ID     int     `json:"id"`
	Input  string  `json:"input"`
	Output *Output `json:"output"`
}

// ClientInfo carries display attributes reported by a browser client.
type ClientInfo struct {
	UserAgent    string `json:"user_agent,omitempty"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
	ViewWidth    int    `json:"view_width,omitempty"`
	ColorDepth   int    `json:"color_depth,omitempty"`
	CPUThreads   int    `json:"cpu_threads,omitempty"`
	Language     string `json:"language,omitempty"`
	TimeZone     string `json:"time_zone,omitempty"`
	DarkMode     bool   `json:"dark_mode,omitempty"`
	HeapUsedMB   int    `json:"heap_used_mb,omitempty"`
	HeapLimitMB  int    `json:"heap_limit_mb,omitempty"`
}

// Request actions.
const (
	ActionHello       = "hello"
	ActionSubmit      = "submit"
	ActionComplete    = "complete"
	ActionRecallOlder = "recall_older"
	ActionRecallNewer = "recall_newer"
	ActionEdit        = "edit"
)

// Request is sent from a client to the daemon.
type Request struct {
	// SessionID identifies the terminal session. Empty on the first hello;
	// the daemon assigns one and echoes it back.
	SessionID string `json:"session_id,omitempty"`
	// Action is one of the Action* constants.
	Action string `json:"action"`
	// Input is the submitted line or the current input buffer.
	Input string `json:"input,omitempty"`
	// Client is sent with hello so the environment snapshot can describe
	// the visitor's browser.
	Client *ClientInfo `json:"client,omitempty"`
}

// Update describes the state changes produced by one input event or one
// asynchronous completion.
type Update struct {
	// Records are appended to the transcript, or replace the record with the
	// same ID when Replace is set.
	Records []Record `json:"records,omitempty"`
	Replace bool     `json:"replace,omitempty"`
	// Cleared means the client should drop its transcript before applying Records.
	Cleared bool `json:"cleared,omitempty"`
	// Buffer, when non-nil, replaces the client's input buffer.
	Buffer   *string `json:"buffer,omitempty"`
	Cues     []Cue   `json:"cues,omitempty"`
	Download string  `json:"download,omitempty"`
	// ReloadIn is the delay in milliseconds before the session resets.
	ReloadIn int `json:"reload_in,omitempty"`
	// Reloaded means the session was reset; clients show the banner again.
	Reloaded bool   `json:"reloaded,omitempty"`
	Cwd      string `json:"cwd"`
	Muted    bool   `json:"muted"`
}

// Response is sent from the daemon back to the client.
type Response struct {
	SessionID string `json:"session_id"`
	// Update is the direct result of the request.
	Update *Update `json:"update,omitempty"`
	// Pending holds asynchronous updates queued since the previous request.
	Pending []Update `json:"pending,omitempty"`
	// Banner is sent in reply to hello.
	Banner *Banner `json:"banner,omitempty"`
	// Error is set when the daemon cannot fulfill the request.
	Error *Error `json:"error,omitempty"`
}

// Banner is the welcome text shown when a session starts.
type Banner struct {
	Art    string   `json:"art"`
	Lines  []string `json:"lines"`
	Prompt string   `json:"prompt"`
}

// Error describes a daemon-side error returned to the client.
type Error struct {
	// Code is a machine-readable error identifier (e.g. "invalid_request", "unknown_action").
	Code string `json:"code"`
	// Message is a human-readable error description.
	Message string `json:"message"`
}
