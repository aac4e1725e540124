package entity

import (
	"errors"
	"fmt"
)

// Protocol handler errors. Callers match them with errors.Is.
var (
	ErrInvalidScheme    = errors.New("invalid scheme")
	ErrSyntax           = errors.New("malformed address")
	ErrModuleNotFound   = errors.New("module not found")
	ErrModuleLoadFailed = errors.New("module load failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrBufferTooSmall   = errors.New("buffer too small")
	ErrNoData           = errors.New("no data")
	ErrNotImplemented   = errors.New("not implemented")
	ErrUnknownScheme    = errors.New("unknown scheme")
	ErrUnsupported      = errors.New("unsupported, use host default")
	ErrNotApplicable    = errors.New("not applicable")
	ErrDefaultAction    = errors.New("default action")
)

// ModuleError reports a module image that could not be located or mapped.
// Kind is ErrModuleNotFound or ErrModuleLoadFailed; Cause is the platform error.
type ModuleError struct {
	Module string
	Kind   error
	Cause  error
}

func (e *ModuleError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Module)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Module, e.Cause)
}

func (e *ModuleError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// ResourceError reports a failed resource lookup. Cause is the lookup error of
// the last search attempted.
type ResourceError struct {
	Module string
	Name   string
	Type   ResourceID
	Cause  error
}

func (e *ResourceError) Error() string {
	msg := fmt.Sprintf("%v: %s (type %s) in %s", ErrResourceNotFound, e.Name, e.Type, e.Module)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ResourceError) Unwrap() []error {
	return []error{ErrResourceNotFound, e.Cause}
}

// SizeError carries the buffer size a caller needs: characters including the
// terminator for URLs, bytes for query answers. Kind is ErrBufferTooSmall or
// ErrNotApplicable.
type SizeError struct {
	Required int
	Kind     error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v: %d characters required", e.Kind, e.Required)
}

func (e *SizeError) Unwrap() error {
	return e.Kind
}

// RequiredSize extracts the required size from a SizeError chain.
func RequiredSize(err error) (int, bool) {
	var se *SizeError
	if errors.As(err, &se) {
		return se.Required, true
	}
	return 0, false
}

// ResultCode is the status code delivered with a result notification.
type ResultCode uint32

// Result codes understood by hosts.
const (
	ResultOK                ResultCode = 0x00000000
	ResultFalse             ResultCode = 0x00000001
	ResultNotImplemented    ResultCode = 0x80004001
	ResultFail              ResultCode = 0x80004005
	ResultInvalidArg        ResultCode = 0x80070057
	ResultSyntax            ResultCode = 0x800401e4
	ResultClassNotAvailable ResultCode = 0x80040111
	ResultModNotFound       ResultCode = 0x8007007e
	ResultBadImage          ResultCode = 0x800700c1
	ResultResourceNotFound  ResultCode = 0x80070716
	ResultUseDefault        ResultCode = 0x800c0011
)

// StatusCode maps an error to its result code. A nil error is ResultOK.
func StatusCode(err error) ResultCode {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrInvalidScheme):
		return ResultInvalidArg
	case errors.Is(err, ErrSyntax):
		return ResultSyntax
	case errors.Is(err, ErrModuleNotFound):
		return ResultModNotFound
	case errors.Is(err, ErrModuleLoadFailed):
		return ResultBadImage
	case errors.Is(err, ErrResourceNotFound):
		return ResultResourceNotFound
	case errors.Is(err, ErrBufferTooSmall):
		return ResultFalse
	case errors.Is(err, ErrNotImplemented):
		return ResultNotImplemented
	case errors.Is(err, ErrUnknownScheme):
		return ResultClassNotAvailable
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrDefaultAction):
		return ResultUseDefault
	default:
		return ResultFail
	}
}

// Succeeded reports whether the code is a success code.
func (c ResultCode) Succeeded() bool {
	return c&0x80000000 == 0
}

func (c ResultCode) String() string {
	return fmt.Sprintf("0x%08x", uint32(c))
}
