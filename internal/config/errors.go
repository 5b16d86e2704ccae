package config

import "errors"

var (
	errMissingSecret = errors.New("JWT_SECRET belum diset, wajib untuk production")
	errShortSecret   = errors.New("JWT_SECRET minimal 32 karakter")
)
