package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/beamsway/internal/repository"
	"github.com/RMahshie/beamsway/internal/sway"
)

// toHTTPError maps domain errors onto huma status errors
func toHTTPError(msg string, err error) error {
	switch {
	case errors.Is(err, sway.ErrConfig):
		return huma.Error400BadRequest(err.Error(), err)
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
