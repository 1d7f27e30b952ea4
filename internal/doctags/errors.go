package doctags

import "fmt"

// MalformedDocumentError indicates the input could not be tokenized as
// DocTags markup at all. It is fatal for the whole parse; retrying with
// the same input cannot succeed.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed doctags document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }
