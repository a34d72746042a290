package types

// StatusError is an error that knows its HTTP status.
type StatusError struct {
	Err    error
	Status int
}

func (e StatusError) Error() string {
	if e.Err == nil {
		return "status error"
	}
	return e.Err.Error()
}

func (e StatusError) Unwrap() error {
	return e.Err
}

func (e StatusError) HTTPStatus() int {
	return e.Status
}

func NewStatusError(err error, status int) StatusError {
	return StatusError{
		Err:    err,
		Status: status,
	}
}
