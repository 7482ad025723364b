package domain

import "errors"

var ErrNotFound = errors.New("Account not found")
var ErrAccountClosed = errors.New("Account is closed")
var ErrAlreadyClosed = errors.New("Account already closed")
var ErrInvalidAmount = errors.New("Invalid amount")
var ErrInsufficientFunds = errors.New("Insufficient funds")
var ErrInvalidAccountType = errors.New("Invalid account type")
var ErrStoreUnavailable = errors.New("Account store unavailable")
var ErrPartialTransfer = errors.New("Transfer partially applied")
