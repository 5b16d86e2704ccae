package auth_test

import "gudang-backend/internal/models"

func newProfile() *models.Profile {
	return &models.Profile{ID: "p-1", Email: "p@saj.id", Role: models.RoleUser}
}
