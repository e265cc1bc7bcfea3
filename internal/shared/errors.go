package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrKeyNotFound       = fmt.Errorf("key not found")
	ErrStorageClosed     = fmt.Errorf("storage closed")
	ErrCorruptCollection = fmt.Errorf("corrupt collection")

	// Catalog and roster conflicts
	ErrDuplicateISBN          = fmt.Errorf("duplicate ISBN")
	ErrDuplicateStudentNumber = fmt.Errorf("duplicate student number")
	ErrBookNotFound           = fmt.Errorf("book not found")
	ErrStudentNotFound        = fmt.Errorf("student not found")

	// Circulation errors
	ErrBookOnLoan  = fmt.Errorf("book currently on loan")
	ErrNotOnLoan   = fmt.Errorf("book not currently on loan")
	ErrActiveLoans = fmt.Errorf("record has active loans")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
