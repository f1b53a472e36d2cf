package question

import (
	"errors"
	"fmt"
)

var ErrStructure = errors.New("unknown document structure")

// StructureError reports a question whose following nodes do not match any
// known answer layout. It aborts the document it occurred in.
type StructureError struct {
	Document string
	Question int
	Detail   string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: question %d: %s: %s", e.Document, e.Question, ErrStructure, e.Detail)
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}
