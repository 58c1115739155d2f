package incparse

import "fmt"

// ContractError is raised (via panic, never returned) when a caller
// violates this module's usage contract: operating on a document with
// no language installed or no input set, indexing a child out of
// range, passing a nil argument or an invalid edit range. Querying a
// node that was already released is not detected. Parse errors proper
// never surface this way — malformed input always ends up in-tree as
// an ERROR node.
type ContractError struct {
	Op      string
	Message string
}

func (e ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func contractViolation(op, format string, args ...any) {
	panic(ContractError{Op: op, Message: fmt.Sprintf(format, args...)})
}

func isContractViolation(err error) bool {
	_, ok := err.(ContractError)
	return ok
}
