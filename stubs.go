//go:build !linux || !amd64

package ivee

// Supported returns false on platforms without a KVM driver.
func Supported() (bool, error) {
	return false, nil
}

// NewDefaultDriver returns ErrNotAvailable on platforms without a KVM
// driver.
func NewDefaultDriver() (Driver, error) {
	return nil, newErr(KindNotAvailable, "sandbox driver not available on this platform")
}
