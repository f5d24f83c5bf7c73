package services

import (
	"fmt"

	"shabu_pos/pkg/utils"
)

func validateName(what, name string) (string, error) {
	if utils.IsEmpty(name) {
		return "", fmt.Errorf("%w: %s name must not be empty", ErrValidation, what)
	}
	return utils.NormalizeName(name), nil
}

func validatePrice(price int) error {
	if price < 0 {
		return fmt.Errorf("%w: price %d must not be negative", ErrValidation, price)
	}
	return nil
}
