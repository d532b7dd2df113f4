package pulse

import (
	"errors"
	"fmt"
)

var (
	ErrDeviceUnavailable        = errors.New("no compatible graphics adapter or device")
	ErrSurfaceConfigUnavailable = errors.New("no valid surface configuration for adapter")
	ErrDeviceLost               = errors.New("graphics device lost")
	ErrInvalidSize              = errors.New("surface size must not be zero")

	// ErrNoSurfaceTexture is wrapped by an AcquireError if the surface did
	// not hand out a texture. The native status is not available then.
	ErrNoSurfaceTexture = errors.New("surface returned no texture")

	// ErrStaleFrame is returned by Frame.Finish if the View was resized
	// while the frame was open.
	ErrStaleFrame = errors.New("depth attachment replaced during frame")
)

//go:generate go tool stringer -type=AcquireStatus -trimprefix=Acquire

// AcquireStatus mirrors the non-success results of acquiring
// a texture from a presentation surface.
type AcquireStatus int

const (
	AcquireTimeout AcquireStatus = iota
	AcquireOutdated
	AcquireLost
	AcquireOutOfMemory
	AcquireDeviceLost
)

// AcquireError is returned by View.Acquire.
type AcquireError struct {
	Status AcquireStatus
	Err    error
}

func (e *AcquireError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("acquire surface texture: %s", e.Status)
	}

	return fmt.Sprintf("acquire surface texture: %s: %s", e.Status, e.Err)
}

func (e *AcquireError) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	if !e.Recoverable() {
		errs = append(errs, ErrDeviceLost)
	}

	return errs
}

// Recoverable reports whether reconfiguring the surface and acquiring
// again may succeed.
func (e *AcquireError) Recoverable() bool {
	switch e.Status {
	case AcquireTimeout, AcquireOutdated, AcquireLost:
		return true
	default:
		return false
	}
}
