package pinpad

import (
	"fmt"

	"github.com/gogpu/pinpad/internal/contract"
	"github.com/gogpu/pinpad/internal/handle"
	"github.com/gogpu/pinpad/internal/logging"
)

// BufferBundle carries the two serialized display buffers from their
// producer to Create. The buffers are opaque and passed on unmodified.
type BufferBundle struct {
	Message []byte
	Pinpad  []byte
}

// BundleRef is a one-shot reference to a BufferBundle. It is dead after
// TakeBundle.
type BundleRef uint64

var bundles handle.Table[BufferBundle]

// NewBundle stores a bundle and returns its one-shot reference. The slices
// are retained, not copied; the producer must not modify them afterwards.
func NewBundle(message, pinpad []byte) BundleRef {
	ref := BundleRef(bundles.Put(BufferBundle{Message: message, Pinpad: pinpad}))
	logging.For("pinpad").Debug("bundle stored",
		"ref", uint64(ref), "message_bytes", len(message), "pinpad_bytes", len(pinpad))
	return ref
}

// TakeBundle moves the bundle out of ref. Taking a reference that was never
// issued or was already taken is a contract violation.
func TakeBundle(ref BundleRef) BufferBundle {
	b, ok := bundles.Take(uint64(ref))
	if !ok {
		contract.Fatal(contract.New("pinpad.TakeBundle", contract.KindLifecycle,
			fmt.Errorf("%w: %d", contract.ErrBundleConsumed, uint64(ref))))
	}
	return b
}

// PendingBundles returns the number of bundles not yet taken.
func PendingBundles() int {
	return bundles.Len()
}
