package main

import "fmt"

// InvalidOption is returned when a flag combination or flag value is not
// acceptable (spec §7).
type InvalidOption struct {
	Detail string
}

func (e *InvalidOption) Error() string { return fmt.Sprintf("invalid option: %s", e.Detail) }

// InvalidArguments is returned when the positional argument list is wrong
// (spec §7).
type InvalidArguments struct {
	Detail string
}

func (e *InvalidArguments) Error() string { return fmt.Sprintf("invalid arguments: %s", e.Detail) }
