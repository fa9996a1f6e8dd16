package main

import "errors"

var (
	// ErrStoreOpen means an index store path could not be opened.
	ErrStoreOpen = errors.New("failed to open index store")
	// ErrNoUnits means the given stores contained no usable unit at all.
	ErrNoUnits = errors.New("failed to load units")
	// ErrRecordOpen means a unit names a record the store cannot open.
	ErrRecordOpen = errors.New("failed to load record")
	// ErrDuplicateUnit is returned for a second unit with the same main
	// file when the duplicate-units policy is "error".
	ErrDuplicateUnit = errors.New("duplicate unit for main file")
	// ErrUnreadableSource is returned when a source file cannot be read and
	// the unreadable-files policy is "fail".
	ErrUnreadableSource = errors.New("failed to read source file")
	// ErrInvalidReporter means the configured reporter does not exist.
	ErrInvalidReporter = errors.New("requested a type of reporter that doesn't exist")
	// ErrInvalidConfig covers every other configuration problem.
	ErrInvalidConfig = errors.New("invalid configuration")
)
