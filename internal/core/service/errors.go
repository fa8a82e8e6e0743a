package service

import (
	"fmt"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// storageErr tags err as a store failure while keeping the cause reachable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// requireFields takes name/value pairs and reports the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s", domain.ErrMissingField, pairs[i])
		}
	}
	return nil
}
