package errors

import (
	"errors"
	"fmt"
)

// fatalError is an error that is printed to the user as is, after which the
// program exits with an error code.
type fatalError struct {
	msg string
	err error
}

func (e *fatalError) Error() string {
	return e.msg
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// IsFatal returns true if err is a fatal message that should be printed to the
// user without a stack trace.
func IsFatal(err error) bool {
	var fatal *fatalError
	return errors.As(err, &fatal)
}

// Fatal returns an error that is marked fatal.
func Fatal(s string) error {
	return Wrap(&fatalError{msg: s}, "Fatal")
}

// Fatalf returns an error that is marked fatal. The last error found in data
// stays reachable through errors.Is and errors.As.
func Fatalf(s string, data ...interface{}) error {
	var underlying error
	for i := len(data) - 1; i >= 0; i-- {
		if err, ok := data[i].(error); ok {
			underlying = err
			break
		}
	}

	return Wrap(&fatalError{
		msg: fmt.Sprintf(s, data...),
		err: underlying,
	}, "Fatal")
}

// FatalWrap returns an error that is marked fatal and printed as s. Unlike
// Fatal, err stays reachable through errors.Is and errors.As.
func FatalWrap(err error, s string) error {
	return Wrap(&fatalError{msg: s, err: err}, "Fatal")
}
