package arena

import "errors"

// Failure classes for a leaderboard fetch. Wrapped into returned errors
// so callers can classify with errors.Is.
var (
	// the request failed, timed out or came back with an error status
	ErrNetwork = errors.New("network failure")
	// the expected leaderboard table is missing from the page,
	// usually means arena changed their markup
	ErrParse = errors.New("leaderboard parse failure")
	// a table row is missing a required field or has a malformed value
	ErrValidation = errors.New("row validation failure")
)
