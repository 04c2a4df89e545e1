package reflection

import "sync/atomic"

// AccessPolicy reports whether access checks on non-public members may be
// suppressed. It is consulted once per invocation that failed on access.
type AccessPolicy func() bool

var memberAccessControl atomic.Bool

func init() {
	memberAccessControl.Store(true)
}

// CanControlMemberAccessible is the process-wide AccessPolicy and the default
// one for every Reflector.
func CanControlMemberAccessible() bool {
	return memberAccessControl.Load()
}

// SetMemberAccessControl allows or forbids, process-wide, suppressing access
// checks on non-public members.
func SetMemberAccessControl(allowed bool) {
	memberAccessControl.Store(allowed)
}

// AllowAccess always permits suppression.
func AllowAccess() bool { return true }

// DenyAccess never permits suppression.
func DenyAccess() bool { return false }
