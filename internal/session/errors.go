package session

import "errors"

var (
	// ErrNoCurrentItem is returned when there is nothing to answer or skip,
	// either because no session is active or the session is complete.
	ErrNoCurrentItem = errors.New("no current item")

	// ErrIncompleteSession is returned when a summary is requested before
	// every item has been retired.
	ErrIncompleteSession = errors.New("incomplete session")

	// ErrMalformedSession is returned by Initialize for unusable item lists.
	ErrMalformedSession = errors.New("malformed session data")
)
