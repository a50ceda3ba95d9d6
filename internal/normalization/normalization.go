package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString keeps the caller's casing. Used for display fields like
// habit names where lowercasing would be destructive.
func TrimInputString(input string) string {
  return strings.TrimSpace(input)
}
