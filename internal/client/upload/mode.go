package upload

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docupload/internal/common"
)

// Policy decides what a failing pipeline does to the rest of the run.
type Policy string

const (
	PolicyStrict   Policy = "strict"
	PolicyTolerant Policy = "tolerant"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyStrict, PolicyTolerant:
		return p, nil
	case "":
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// DescriptorMode is shared with the server; see common.DescriptorMode.
type DescriptorMode = common.DescriptorMode

const (
	DescriptorFromNegotiation = common.DescriptorFromNegotiation
	DescriptorFromTransfer    = common.DescriptorFromTransfer
)

func ParseDescriptorMode(s string) (DescriptorMode, error) {
	return common.ParseDescriptorMode(s)
}
