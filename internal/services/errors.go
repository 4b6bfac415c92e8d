// internal/services/errors.go
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
)

// wrapDBError translates a gorm error into the service taxonomy. Deadline
// and connection failures are retryable; everything else unexpected is
// internal. Callers that care about ErrRecordNotFound check it themselves
// before reaching for this.
func wrapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound("record not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Unavailable(err)
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return apperrors.Unavailable(err)
	default:
		return apperrors.Internal(err)
	}
}
