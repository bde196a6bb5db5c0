package collapse

import "errors"

// ErrLeaderAborted is delivered to queued callers when the leading call
// panicked while being dispatched and therefore never reached the network.
var ErrLeaderAborted = errors.New("collapse: leading call aborted before dispatch")
