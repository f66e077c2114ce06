package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Transaction state errors
	ErrTransactionNotFound   = errors.New("fuel transaction not found")
	ErrInvalidState          = errors.New("operation not allowed in current state")
	ErrVerificationRequired  = errors.New("transaction must be verified before settlement")
	ErrTransactionProcessed  = errors.New("transaction already processed")
	ErrAmountsMustBePositive = errors.New("quantity and unit price must be positive")

	// Wallet errors
	ErrDriverWalletNotFound = errors.New("driver wallet not found")
	ErrPumpWalletNotFound   = errors.New("pump wallet not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAmountTooLow         = errors.New("amount must be greater than zero")

	// Registry errors
	ErrPumpNotFound      = errors.New("pump not found")
	ErrPumpOwnerNotFound = errors.New("pump owner not found")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")

	// Payout errors
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrSettlementProcessed = errors.New("settlement already processed")
	ErrInvalidPayoutAction = errors.New("payout action must be approve or reject")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size is out of range")
)

// EscrowError wraps a failure in an escrow or payout flow with a stable
// machine-readable code. Configuration-level faults (a pump with no wallet)
// are reported through this type and abort the request; business outcomes
// (unresolvable vehicle, insufficient driver funds during settlement) are
// not errors at all and surface as a failed transaction instead.
type EscrowError struct {
	Code    string
	Message string
	Err     error
}

func (e *EscrowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EscrowError) Unwrap() error {
	return e.Err
}

func NewEscrowError(code, message string, err error) *EscrowError {
	return &EscrowError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsTransactionNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsVerificationRequired(err error) bool {
	return errors.Is(err, ErrVerificationRequired)
}

func IsTransactionProcessed(err error) bool {
	return errors.Is(err, ErrTransactionProcessed)
}

func IsAmountsMustBePositive(err error) bool {
	return errors.Is(err, ErrAmountsMustBePositive)
}

func IsDriverWalletNotFound(err error) bool {
	return errors.Is(err, ErrDriverWalletNotFound)
}

func IsPumpWalletNotFound(err error) bool {
	return errors.Is(err, ErrPumpWalletNotFound)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsAmountTooLow(err error) bool {
	return errors.Is(err, ErrAmountTooLow)
}

func IsPumpNotFound(err error) bool {
	return errors.Is(err, ErrPumpNotFound)
}

func IsPumpOwnerNotFound(err error) bool {
	return errors.Is(err, ErrPumpOwnerNotFound)
}

func IsDriverNotFound(err error) bool {
	return errors.Is(err, ErrDriverNotFound)
}

func IsVehicleNotFound(err error) bool {
	return errors.Is(err, ErrVehicleNotFound)
}

func IsSettlementNotFound(err error) bool {
	return errors.Is(err, ErrSettlementNotFound)
}

func IsSettlementProcessed(err error) bool {
	return errors.Is(err, ErrSettlementProcessed)
}

func IsInvalidPayoutAction(err error) bool {
	return errors.Is(err, ErrInvalidPayoutAction)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
