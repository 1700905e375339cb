package upload

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docupload/internal/common"
)

var (
	ErrEmptyName             = errors.New("file name is empty")
	ErrMalformedResponse     = errors.New("malformed response")
	ErrProtocolMismatch      = errors.New("document descriptor protocol mismatch")
	ErrInvalidBatchSize      = errors.New("batch size must be positive")
	ErrUnknownPolicy         = errors.New("unknown failure policy")
	ErrUnknownDescriptorMode = common.ErrUnknownDescriptorMode
)

// NegotiationError is returned when upload parameters for a file could not
// be obtained.
type NegotiationError struct {
	File string
	Err  error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("negotiate %q: %v", e.File, e.Err)
}

func (e *NegotiationError) Unwrap() error { return e.Err }

// TransferError is returned when file content could not be delivered to its
// destination.
type TransferError struct {
	File string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %q: %v", e.File, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
