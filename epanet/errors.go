package epanet

import (
	"fmt"

	"github.com/WaterFutures/epanet-go/ffi"
	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger redirects the package's diagnostic output (toolkit warnings and
// load tracing).
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// Error is a toolkit status code of 100 or above, with the message text the
// native library reports for it.
type Error struct {
	Code    int32
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("epanet: error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("epanet: error %d", e.Code)
}

// geterror retrieves the toolkit's message text for a status code through the
// library's geterror function, which exists in both symbol families.
func geterror(lib *ffi.Library, fn string, code int32) string {
	f, err := lib.Resolve(fn)
	if err != nil {
		return ""
	}
	buf := ffi.NewBuffer(MaxMsg + 1)
	if _, err := f.Call(code, buf, int32(MaxMsg)); err != nil {
		return ""
	}
	return buf.String()
}

// checkCode maps a toolkit status code to Go: 0 is success, codes below 100
// are warnings (logged, not errors), 100 and above are errors carrying the
// library's message text.
func checkCode(lib *ffi.Library, errFn string, code int32) error {
	switch {
	case code == 0:
		return nil
	case code < 100:
		log.WithField("code", code).Warn(geterror(lib, errFn, code))
		return nil
	default:
		return &Error{Code: code, Message: geterror(lib, errFn, code)}
	}
}
