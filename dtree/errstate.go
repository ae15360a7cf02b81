package dtree

import "github.com/joshuapare/dtreekit/pkg/types"

// errorState keeps the first failure since it was last cleared.
type errorState struct {
	err error
}

func (s *errorState) set(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

func (s *errorState) clear() { s.err = nil }

// IsError reports whether a failure has been recorded since the last
// successful Open or ClearError. Check it right after a nil result from
// Next or a Find method to tell "not found" from "failed".
func (s *Session) IsError() bool { return s.errs.err != nil }

// Err returns the recorded failure, or nil.
func (s *Session) Err() error { return s.errs.err }

// ErrorKind returns the category of the recorded failure.
func (s *Session) ErrorKind() types.ErrKind { return types.KindOf(s.errs.err) }

// ErrorText describes the recorded failure. It is valid at any time,
// reports "Successful" when nothing has failed and "Unknown error occurred"
// for a failure without a message.
func (s *Session) ErrorText() string {
	switch {
	case s.errs.err == nil:
		return "Successful"
	case s.errs.err.Error() == "":
		return "Unknown error occurred"
	default:
		return s.errs.err.Error()
	}
}

// ClearError forgets the recorded failure.
func (s *Session) ClearError() { s.errs.clear() }
