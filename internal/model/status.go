package model

import "fmt"

// Status represents a record's position in the pipeline.
//
// Valid transitions are forward-only:
//
//	Discovered → Downloaded → Tagged
//
// Failed is reachable from any non-terminal status. Tagged and Failed
// are terminal.
type Status string

const (
	// StatusDiscovered means the record was parsed from the listing
	// but nothing has been downloaded yet.
	StatusDiscovered Status = "Discovered"

	// StatusDownloaded means the audio file is on disk.
	StatusDownloaded Status = "Downloaded"

	// StatusTagged means metadata was written into the audio file.
	StatusTagged Status = "Tagged"

	// StatusFailed means the record was abandoned after an error.
	StatusFailed Status = "Failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for Tagged and Failed.
func (s Status) IsTerminal() bool {
	return s == StatusTagged || s == StatusFailed
}

// next maps each status to its only allowed forward successor.
var next = map[Status]Status{
	StatusDiscovered: StatusDownloaded,
	StatusDownloaded: StatusTagged,
}

// Advance moves the record to the given status, enforcing forward-only
// transitions. Failing a non-terminal record is always allowed.
func (r *Record) Advance(to Status) error {
	if to == StatusFailed {
		if r.Status.IsTerminal() {
			return fmt.Errorf("record %q: cannot fail from terminal status %s", r.Title, r.Status)
		}
		r.Status = StatusFailed
		return nil
	}
	if next[r.Status] != to {
		return fmt.Errorf("record %q: invalid transition %s → %s", r.Title, r.Status, to)
	}
	r.Status = to
	return nil
}
