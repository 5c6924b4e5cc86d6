package repositories

import (
	"errors"

	"gorm.io/gorm"
)

func isGormNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
