package types

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var hederaAccountRegex = regexp.MustCompile(`^0\.0\.[1-9][0-9]*$`)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringNilOrEmpty checks if a pointer to a string is nil or empty
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// IsEVMAddress checks if a string is a valid EVM-style wallet address
func IsEVMAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NormalizeEVMAddress lowercases an EVM address so lookups are case-insensitive
func NormalizeEVMAddress(s string) string {
	return strings.ToLower(s)
}

// IsHederaAccountID checks if a string has the 0.0.N Hedera account id shape
func IsHederaAccountID(s string) bool {
	return hederaAccountRegex.MatchString(s)
}
