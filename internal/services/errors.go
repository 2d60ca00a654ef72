package services

import "fmt"

// Failure codes for user-correctable order rejections. Anything not covered
// here is a system error and is surfaced generically.
const (
	CodeEmptyCart             = "EMPTY_CART"
	CodeMissingCustomer       = "MISSING_CUSTOMER"
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeUnknownTicketType     = "UNKNOWN_TICKET_TYPE"
	CodeInvalidQuantity       = "INVALID_QUANTITY"
	CodeSalesNotStarted       = "SALES_NOT_STARTED"
	CodeSalesEnded            = "SALES_ENDED"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeOrderNotPayable       = "ORDER_NOT_PAYABLE"
)

// OrderError is a user-correctable rejection with a machine-readable code.
// The order attempt that produced it left no mutation behind.
type OrderError struct {
	Code    string
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

func newOrderError(code, format string, args ...interface{}) *OrderError {
	return &OrderError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsOrderError unwraps an OrderError from err, if that is what it is.
func AsOrderError(err error) (*OrderError, bool) {
	orderErr, ok := err.(*OrderError)
	return orderErr, ok
}
