package services

import (
	"errors"

	"inventory/internal/models"
)

func requireLogin(actor models.Actor) error {
	if !actor.IsAuthenticated() {
		return models.NewLoginRequiredError()
	}
	return nil
}

func requireRole(actor models.Actor, role models.Role) error {
	if err := requireLogin(actor); err != nil {
		return err
	}
	if !actor.HasRole(role) {
		return models.NewForbiddenError()
	}
	return nil
}

func isValidationError(err error) bool {
	var ve *models.ValidationError
	return errors.As(err, &ve)
}

func isUnauthenticated(err error) bool {
	var ae *models.AuthorizationError
	return errors.As(err, &ae) && ae.Unauthenticated
}
