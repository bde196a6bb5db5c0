package call

// NetworkCallback splits a completion into the three outcomes callers
// usually care about: a successful body, an error status, or a failure to
// reach the server at all.
//
// When IsAuthError is set and reports true, HandleAuthError receives the
// response instead of Successful or Failed.
type NetworkCallback[T any] struct {
	// Successful receives the decoded body of a 2xx response.
	Successful func(data T)

	// Failed receives the raw error body and status of a non-2xx response.
	Failed func(errorBody []byte, code int)

	// CallFailure receives the cause when no response was obtained.
	CallFailure func(err error)

	// IsAuthError reports whether a response is an authentication error.
	// Optional.
	IsAuthError func(resp *Response[T]) bool

	// HandleAuthError is invoked for responses IsAuthError accepts.
	// Optional.
	HandleAuthError func(resp *Response[T])
}

// OnResponse implements Callback.
func (n NetworkCallback[T]) OnResponse(_ Call[T], resp *Response[T]) {
	switch {
	case n.IsAuthError != nil && n.IsAuthError(resp):
		if n.HandleAuthError != nil {
			n.HandleAuthError(resp)
		}
	case resp.Successful():
		if n.Successful != nil {
			n.Successful(resp.Body)
		}
	default:
		if n.Failed != nil {
			n.Failed(resp.ErrorBody, resp.StatusCode)
		}
	}
}

// OnFailure implements Callback.
func (n NetworkCallback[T]) OnFailure(_ Call[T], err error) {
	if n.CallFailure != nil {
		n.CallFailure(err)
	}
}

var _ Callback[any] = NetworkCallback[any]{}
