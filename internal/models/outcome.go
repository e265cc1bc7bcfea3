package models

import "fmt"

// Outcome reports the result of a mutating store operation.
//
// Business-rule failures (duplicates, misses, state conflicts) are outcomes with Success false and a
// sentinel Reason from package shared; they are never returned as Go errors.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
	Reason  error  `json:"-"`
}

// Succeeded builds a successful [Outcome].
func Succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

// Failed builds a failed [Outcome] for reason.
func Failed(reason error, message string) Outcome {
	return Outcome{Success: false, Message: message, Reason: reason}
}

// WithWarning returns a copy carrying a non-blocking warning.
func (o Outcome) WithWarning(warning string) Outcome {
	o.Warning = warning
	return o
}

// Err converts a failed outcome into an error wrapping its reason, or nil on success.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	if o.Reason == nil {
		return fmt.Errorf("%s", o.Message)
	}
	return fmt.Errorf("%w: %s", o.Reason, o.Message)
}
