package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a whole number: %w", s, err)
	}
	return num, nil
}

// StrToPrice parses a menu price. Prices are whole baht and never negative.
func StrToPrice(s string) (int, error) {
	num, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a whole number: %w", s, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("price %d must not be negative", num)
	}
	return num, nil
}
