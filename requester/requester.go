package requester

import "errors"

// errUnexpectedReply marks a reply that parsed but wasn't the message type
// the caller asked for (e.g. a TGS-REP came back where an AS-REP was
// expected). This should never happen against a spec-compliant KDC.
var errUnexpectedReply = errors.New("unexpected reply type")
