package transport

import (
	"errors"
	"net/http"

	"furnish-must/internal/middleware"
	"furnish-must/internal/repository"
	"furnish-must/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and repository errors onto the HTTP
// error taxonomy. Unrecognized errors become a generic 500 so internal
// details never leak.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, ve.Message,
			map[string]interface{}{"field": ve.Field})
		return
	}

	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
