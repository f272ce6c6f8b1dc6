package code

// ErrorCode is an error carrying an http status and a business code.
// Frozen codes are shared, so the only way to vary one is WithResult.
type ErrorCode interface {
	error
	ServiceName() string
	StatusCode() int
	Code() string
	Message() string
	Result() interface{}
	WithResult(interface{}) ErrorCode
	Is(error) bool
}
