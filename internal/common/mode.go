package common

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDescriptorMode = errors.New("unknown descriptor mode")

// DescriptorMode names the exchange whose response carries the document
// descriptor. Client and server of one deployment must agree on it.
type DescriptorMode string

const (
	DescriptorFromNegotiation DescriptorMode = "negotiation"
	DescriptorFromTransfer    DescriptorMode = "transfer"
)

// ParseDescriptorMode accepts "negotiation" and "transfer" in any case. An
// empty string means DescriptorFromNegotiation.
func ParseDescriptorMode(s string) (DescriptorMode, error) {
	switch m := DescriptorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case DescriptorFromNegotiation, DescriptorFromTransfer:
		return m, nil
	case "":
		return DescriptorFromNegotiation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDescriptorMode, s)
	}
}
