package service

import (
	"errors"

	"storyweaver-server/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
