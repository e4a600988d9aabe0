package fsops

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// Option adjusts mode and ownership applied after a create or write.
type Option func(*applyOpts)

type applyOpts struct {
	mode  *os.FileMode
	owner string
}

// WithMode applies a chmod-style permission bitmask after the operation.
func WithMode(mode os.FileMode) Option {
	return func(a *applyOpts) { a.mode = &mode }
}

// WithOwner resolves the named system user and chowns the target after
// the operation. Requires privilege.
func WithOwner(owner string) Option {
	return func(a *applyOpts) { a.owner = owner }
}

func collectOpts(opts []Option) applyOpts {
	var a applyOpts
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// lookupOwner resolves a username to numeric uid and gid.
func lookupOwner(name string) (uid, gid int, err error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup user %q: %w", name, err)
	}
	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err = strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}
	return uid, gid, nil
}

// apply sets mode and ownership on path per the collected options.
func (a applyOpts) apply(path string) error {
	if a.mode != nil {
		if err := os.Chmod(path, *a.mode); err != nil {
			return err
		}
	}
	if a.owner != "" {
		uid, gid, err := lookupOwner(a.owner)
		if err != nil {
			return err
		}
		if err := os.Chown(path, uid, gid); err != nil {
			return err
		}
	}
	return nil
}
