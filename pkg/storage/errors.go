package storage

import "errors"

// ErrInvalidCaller is returned when the caller of a record mutation is not the
// record's owner.
var ErrInvalidCaller = errors.New("caller is not the record owner")

// ErrAddressInUse is returned when creating a record whose derived address is
// already occupied.
var ErrAddressInUse = errors.New("address already in use")

// ErrRecordNotFound is returned when no record exists at the derived address.
var ErrRecordNotFound = errors.New("record not found")

// ErrCapacityExceeded is returned when a merchant name does not fit the
// configured byte capacity.
var ErrCapacityExceeded = errors.New("merchant name exceeds capacity")

// ErrInsufficientDeposit is returned when a deposit account cannot cover the
// storage deposit for a new record.
var ErrInsufficientDeposit = errors.New("insufficient deposit balance")

// ErrAccountExists is returned when opening a deposit account for an owner
// that already has one.
var ErrAccountExists = errors.New("deposit account already exists")

// ErrAccountNotFound is returned when an owner has no deposit account.
var ErrAccountNotFound = errors.New("deposit account not found")
