package poll

import "errors"

// ErrTriesExhausted is reported when every try produced a response the
// condition asked to keep polling on.
var ErrTriesExhausted = errors.New("poll: ran out of tries")
