package ui

import "strconv"

// Entity is a stable handle to a node owned by the Hierarchy provider.
// Index addresses an arena slot; Generation distinguishes reuses of the slot,
// so a handle to a destroyed entity never aliases its replacement.
// The zero Entity is never alive.
type Entity struct {
	Index      uint32
	Generation uint32
}

// IsZero returns true for the zero handle.
func (e Entity) IsZero() bool {
	return e.Generation == 0
}

// String formats the handle as "index:generation".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Index), 10) + ":" + strconv.FormatUint(uint64(e.Generation), 10)
}
