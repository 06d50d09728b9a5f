package client

// Result is the outcome of a completed round trip.
// Err is set when the server answered with anything but 200, in which case
// Data is the zero value.
type Result[T any] struct {
	Status int
	Data   T
	Err    *ServerError
}

// OK reports whether the server accepted the request.
func (r *Result[T]) OK() bool {
	return r != nil && r.Err == nil
}
