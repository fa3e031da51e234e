package domain

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrUnauthorized     = errors.New("Unauthorized")
)

// Kinds of marketplace failures. Every reason below unwraps to exactly one of them.
var (
	ErrInputValidation = errors.New("input validation")
	ErrAuthorization   = errors.New("authorization")
	ErrState           = errors.New("state")
	ErrTransferFailure = errors.New("transfer failure")
)

var (
	ErrPriceNotPositive    = NewError(ErrInputValidation, "price must be > 0")
	ErrDurationNotPositive = NewError(ErrInputValidation, "duration must be > 0")
	ErrDurationTooLong     = NewError(ErrInputValidation, "duration is too long")
	ErrAmountNotPositive   = NewError(ErrInputValidation, "amount must be > 0")
	ErrCommissionTooHigh   = NewError(ErrInputValidation, "comission percent must be less than 100")
	ErrFundsMismatch       = NewError(ErrInputValidation, "mismatch of funds")

	ErrUnauthorizedAccount = NewError(ErrAuthorization, "caller is not the contract owner")
	ErrNotTokenOwner       = NewError(ErrAuthorization, "caller is not the owner")
	ErrNotApproved         = NewError(ErrAuthorization, "contract is not approved")
	ErrNotSeller           = NewError(ErrAuthorization, "caller is not the seller")
	ErrSelfPurchase        = NewError(ErrAuthorization, "seller can not buy his own listing")
	ErrNotOperator         = NewError(ErrAuthorization, "caller is not token owner or approved")

	ErrListingNotFound  = NewError(ErrState, "listing does not exist")
	ErrListingExpired   = NewError(ErrState, "listing is expired")
	ErrSellerNotOwner   = NewError(ErrState, "seller is not the owner")
	ErrNotEnoughTokens  = NewError(ErrState, "not enough tokens")
	ErrNonexistentToken = NewError(ErrState, "token does not exist")

	ErrInsufficientBalance = NewError(ErrTransferFailure, "insufficient balance")
	ErrTransferRejected    = NewError(ErrTransferFailure, "transfer rejected by recipient")
	ErrNoContract          = NewError(ErrTransferFailure, "call to non-contract")
)

// Error is a failure reason tagged with its kind. The message is the bare reason so
// callers can match it exactly.
type Error struct {
	Kind   error
	Reason string
	Cause  error
}

func NewError(kind error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// WrapError tags cause with kind, keeping cause reachable through errors.Is / errors.As
func WrapError(kind error, reason string, cause error) error {
	return &Error{Kind: kind, Reason: reason, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Reason + ": " + e.Cause.Error()
	}
	return e.Reason
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the outermost kind of err, nil if err carries none
func KindOf(err error) error {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind
	}
	return nil
}
