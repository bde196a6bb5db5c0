package call

// Status codes the repository layer commonly inspects.
const (
	// 2xx
	StatusOK        = 200
	StatusCreated   = 201
	StatusAccepted  = 202
	StatusNoContent = 204

	// 4xx
	StatusBadRequest         = 400
	StatusUnauthorized       = 401
	StatusForbidden          = 403
	StatusNotFound           = 404
	StatusPreconditionFailed = 412

	// 5xx
	StatusInternal = 500
)
