// Package kvmdriver binds the ivee.Driver contract to Linux's /dev/kvm
// API. It is deliberately thin: no guest-image interpretation, no
// permission bookkeeping, no page-table math. All of that belongs to the
// core ivee packages; this package only turns ioctl calls into Go values
// and back.
//
// The types here intentionally do not reference package ivee, to avoid an
// import cycle with ivee's platform.go (which constructs the default
// driver from this package and adapts between the two type sets).
package kvmdriver
