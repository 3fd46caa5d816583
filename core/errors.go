// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/palantir/stacktrace"
)

// Error classes of a failed initialisation. All of them are terminal
// for the pipeline; they differ in what the caller can report.
const (
	// CodeUnsupported means nothing on this machine satisfies a hard
	// requirement: device, queue family, format, memory type or layer.
	CodeUnsupported stacktrace.ErrorCode = iota + 1

	// CodeDriver means the runtime rejected a creation call.
	CodeDriver

	// CodePrecondition means an assumption of the pipeline was found false.
	CodePrecondition
)

// Classify returns the error class of err, or stacktrace.NoCode
// if err did not come from this package.
func Classify(err error) stacktrace.ErrorCode {
	return stacktrace.GetCode(err)
}

func unsupported(format string, args ...interface{}) error {
	return stacktrace.NewErrorWithCode(CodeUnsupported, format, args...)
}

func precondition(format string, args ...interface{}) error {
	return stacktrace.NewErrorWithCode(CodePrecondition, format, args...)
}

func driverFailure(cause error, format string, args ...interface{}) error {
	return stacktrace.PropagateWithCode(cause, CodeDriver, format, args...)
}
