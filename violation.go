package pinpad

import "github.com/gogpu/pinpad/internal/contract"

// Violation is the panic value of every host contract violation raised by
// Create, Advance, Release and TakeBundle.
type Violation = contract.Violation

// ViolationKind classifies a Violation.
type ViolationKind = contract.Kind

// Violation kinds.
const (
	// KindInput is a malformed argument from the host.
	KindInput = contract.KindInput
	// KindPlatform is a null or unusable object returned by the platform.
	KindPlatform = contract.KindPlatform
	// KindLifecycle is a call on a handle or bundle that is not live.
	KindLifecycle = contract.KindLifecycle
)

// Reasons wrapped by a Violation. Match them with errors.Is.
var (
	ErrEmptyRects     = contract.ErrEmpty
	ErrNotMultiple    = contract.ErrNotMultiple
	ErrCountMismatch  = contract.ErrCountMismatch
	ErrNullWindow     = contract.ErrNullWindow
	ErrBadColor       = contract.ErrBadColor
	ErrUnknownHandle  = contract.ErrUnknownHandle
	ErrBundleConsumed = contract.ErrBundleConsumed
)

// Recover runs fn and returns the Violation it panicked with, or nil.
// Other panics propagate.
func Recover(fn func()) *Violation {
	return contract.Recover(fn)
}
