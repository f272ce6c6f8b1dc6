package code

import "fmt"

// 3(service)+4(error)
const codeLength = 7

var (
	// 00~99 are service level codes

	ErrInternalServerError = Froze("5000000000", "internal server error")
	ErrInvalidParam        = Froze("4000000001", "invalid request parameter")
	ErrNotFound            = Froze("4040000002", "resource not found")
	ErrNotAllowMethod      = Froze("4050000003", "method not allowed")
	ErrParseContent        = Froze("5000000004", "failed to parse content")
	ErrCodeUnknown         = Froze("5000000005", "unknown error")
	ErrTooManyRequests     = Froze("4290000006", "too many requests")
)

// AddCode registers business codes, failing on malformed or duplicated ones
func AddCode(m map[ErrorCode]struct{}) error {
	temp := make(map[string]string)
	for errorCode := range map[ErrorCode]struct{}{
		ErrInternalServerError: {},
		ErrInvalidParam:        {},
		ErrNotFound:            {},
		ErrNotAllowMethod:      {},
		ErrParseContent:        {},
		ErrCodeUnknown:         {},
		ErrTooManyRequests:     {},
	} {
		if err := register(temp, errorCode); err != nil {
			return err
		}
	}
	for errorCode := range m {
		if err := register(temp, errorCode); err != nil {
			return err
		}
	}
	return nil
}

func register(box map[string]string, errorCode ErrorCode) error {
	if err := check(errorCode); err != nil {
		return err
	}
	code := errorCode.Code()
	if value, ok := box[code]; ok {
		return fmt.Errorf("error code %s(%s) already exists", code, value)
	}
	box[code] = errorCode.Message()
	return nil
}

// check validate ErrorCode's code must be 3(http)+3(service)+4(error)
func check(err ErrorCode) error {
	code := err.Code()
	statusCode := err.StatusCode()
	if statusCode < 100 || statusCode >= 600 {
		return fmt.Errorf("error code %s has invalid status code %d", code, statusCode)
	}
	if l := len(code); l != codeLength {
		return fmt.Errorf("error code %s is %d,but it must be %d", code, l, codeLength)
	}
	return nil
}
