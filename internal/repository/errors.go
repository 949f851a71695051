// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// and translate them into HTTP responses without inspecting SQL
// details.
package repository

import "errors"

// ErrEmailExists is returned when a registration collides with an
// existing account's email. Handlers translate this into 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConcertNotFound is returned when a purchase or lookup names a
// concert id that does not exist. Handlers translate this into 404.
var ErrConcertNotFound = errors.New("concert not found")

// ErrTierNotFound is returned when a purchase names a tier id that
// does not exist within the given concert. Handlers translate this
// into 404.
var ErrTierNotFound = errors.New("tier not found")

// ErrInsufficientInventory is returned when a tier has fewer remaining
// seats than the requested quantity. The purchase fails before any
// mutation. Handlers translate this into 409.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// ErrDraftNotFound is returned when a booking draft is missing or has
// expired. Handlers translate this into 404.
var ErrDraftNotFound = errors.New("draft not found")
