package gen

import "fmt"

// UnmappedPrimitiveError is returned when a schema primitive has no
// counterpart in a target language's primitive table. Generation can't
// continue without emitting a wrong type, so it's always fatal.
type UnmappedPrimitiveError struct {
	Name   string
	Target string
}

func (e *UnmappedPrimitiveError) Error() string {
	return fmt.Sprintf(`primitive type "%s" has no %s mapping`, e.Name, e.Target)
}
