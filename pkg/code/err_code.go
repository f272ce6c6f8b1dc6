package code

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crochee/actionstore/pkg/json"
)

// Froze defines ErrorCode
func Froze(code, message string) ErrorCode {
	return (&errCode{}).Froze(code, message, nil)
}

// From finds the first ErrorCode in err's chain, falling back to ErrCodeUnknown
func From(err error) (ErrorCode, bool) {
	var e ErrorCode
	if errors.As(err, &e) {
		return e, true
	}
	return ErrCodeUnknown.WithResult(fmt.Sprint(err)), false
}

type errCode struct {
	serviceName    string
	httpStatusCode int
	// 3(service)+4(error)
	code    string
	message string
	result  interface{}
}

func (e *errCode) Error() string {
	if e.result == nil {
		return fmt.Sprintf("%3d%s %s", e.httpStatusCode, e.code, e.message)
	}
	return fmt.Sprintf("%3d%s %s: %v", e.httpStatusCode, e.code, e.message, e.result)
}

func (e *errCode) ServiceName() string {
	return e.serviceName
}

func (e *errCode) StatusCode() int {
	return e.httpStatusCode
}

func (e *errCode) Code() string {
	return e.code
}

func (e *errCode) Message() string {
	return e.message
}

func (e *errCode) Result() interface{} {
	return e.result
}

// WithResult copies e with result attached, e itself stays frozen
func (e *errCode) WithResult(result interface{}) ErrorCode {
	ec := *e
	ec.result = result
	return &ec
}

// Is reports whether v carries the same business code, whatever its result
func (e *errCode) Is(v error) bool {
	err, ok := v.(ErrorCode)
	if !ok {
		return false
	}
	return err.Code() == e.Code()
}

// Froze init ErrorCode from content
func (e *errCode) Froze(code, message string, result interface{}) ErrorCode {
	// ErrInternalServerError by default
	e.httpStatusCode = http.StatusInternalServerError
	e.code = "0000001"
	e.message = message

	multiErrCode := strings.ReplaceAll(code, "-", "")
	index := strings.Index(multiErrCode, ".")
	if index > 0 {
		e.serviceName = multiErrCode[:index]
		if index >= len(multiErrCode)-1 {
			return e.WithResult(code + ";" + message)
		}
		multiErrCode = multiErrCode[index+1:]
	}
	if len(multiErrCode) <= 3 {
		return e.WithResult(code + ";" + message)
	}
	httpStatusCode, err := strconv.Atoi(multiErrCode[:3])
	if err != nil {
		return e.WithResult(fmt.Sprintf("code:%s,message:%s;%v", code, message, err))
	}
	if httpStatusCode < 100 || httpStatusCode > 599 {
		return e.WithResult(code + ";" + message)
	}
	e.httpStatusCode = httpStatusCode
	e.code = multiErrCode[3:]
	e.result = result
	return e
}

func (e *errCode) MarshalJSON() ([]byte, error) {
	var result = struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Result  interface{} `json:"result"`
	}{
		Code:    fmt.Sprintf("%s.%3d%s", e.ServiceName(), e.StatusCode(), e.Code()),
		Message: e.Message(),
		Result:  e.Result(),
	}
	if e.ServiceName() == "" {
		result.Code = fmt.Sprintf("%3d%s", e.StatusCode(), e.Code())
	}
	return json.Marshal(result)
}
