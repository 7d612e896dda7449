package handler

import (
	"errors"

	"starclicker-rest-api/internal/service"
	"starclicker-rest-api/pkg/apierror"
)

// serviceError maps a business error from the economy services to the
// structured API error the response layer knows how to render.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound):
		return apierror.NotFound("player not found")
	case errors.Is(err, service.ErrFanNotFound):
		return apierror.NotFound("fan not found")
	case errors.Is(err, service.ErrProductNotFound):
		return apierror.NotFound("product not found")
	case errors.Is(err, service.ErrFanAlreadyOwned):
		return apierror.Conflict("fan is already owned")
	case errors.Is(err, service.ErrInsufficientFunds):
		return apierror.InsufficientFunds("not enough balance")
	case errors.Is(err, service.ErrInvalidPatch):
		return apierror.BadRequest(err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		return apierror.ServiceUnavailable("economy store unavailable")
	default:
		return apierror.InternalError("")
	}
}
