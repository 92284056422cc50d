package postgres

import (
	"errors"
	"fmt"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"gorm.io/gorm"
)

// wrapNotFound maps gorm's record-not-found onto the domain error so callers
// never import gorm to classify failures.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w", errorz.NotFound)
	}
	return err
}
