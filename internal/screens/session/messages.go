package session

import (
	"github.com/abhisek/wordiz/internal/provision"
	sess "github.com/abhisek/wordiz/internal/session"
)

// sessionStartedMsg is sent when provisioning finishes.
type sessionStartedMsg struct {
	Provisioned *provision.Provisioned
	Err         error
}

// resultsSubmittedMsg is sent when the submission call returns. Summary is
// always set; Receipt is nil when Err is set.
type resultsSubmittedMsg struct {
	Summary *sess.Summary
	Receipt *provision.Receipt
	Err     error
}
