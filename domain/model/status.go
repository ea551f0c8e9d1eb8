package model

// RequestStatus tracks the lifecycle of one screen fetch
type RequestStatus string

const (
	// RequestStatusInitial means no fetch has been issued yet
	RequestStatusInitial RequestStatus = "INITIAL"

	// RequestStatusInProgress means a fetch is outstanding
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"

	// RequestStatusSuccess means the latest fetch completed with a 2xx response
	RequestStatusSuccess RequestStatus = "SUCCESS"

	// RequestStatusFailure means the latest fetch failed
	RequestStatusFailure RequestStatus = "FAILURE"
)

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// IsFinished returns true once the latest fetch has resolved
func (s RequestStatus) IsFinished() bool {
	return s == RequestStatusSuccess || s == RequestStatusFailure
}

// CanTransition reports whether the screen state machine allows moving from s to next.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	switch next {
	case RequestStatusInProgress:
		// every fetch, retry and new search starts here
		return true
	case RequestStatusSuccess, RequestStatusFailure:
		return s == RequestStatusInProgress
	default:
		return false
	}
}

// View is what a screen renders for its current status
type View string

const (
	ViewNone    View = "none"
	ViewLoading View = "loading"
	ViewList    View = "list"
	ViewEmpty   View = "empty"
	ViewFailure View = "failure"
)
