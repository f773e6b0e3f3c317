package update

// EventKind identifies the type of a download lifecycle event.
type EventKind int

const (
	// EventProgress reports cumulative bytes after each chunk.
	EventProgress EventKind = iota
	// EventVerificationStarted fires when the hash check begins.
	EventVerificationStarted
	// EventVerificationComplete carries the result of the hash check.
	EventVerificationComplete
	// EventFinished carries the path of the verified artifact.
	EventFinished
	// EventError carries a terminal failure message.
	EventError
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventVerificationStarted:
		return "verification_started"
	case EventVerificationComplete:
		return "verification_complete"
	case EventFinished:
		return "finished"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is a tagged union delivered on the download event channel. Events
// for one session are delivered in emission order; the channel is closed
// when the session ends, including after cancellation.
type Event struct {
	Kind       EventKind
	Downloaded int64  // EventProgress
	Total      int64  // EventProgress
	Valid      bool   // EventVerificationComplete
	Path       string // EventFinished
	Message    string // EventError
}
