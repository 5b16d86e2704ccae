// Package apperr maps every failure the API can surface onto a small
// taxonomy with a localized message. Nothing past the HTTP boundary sees a
// raw driver error.
package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"log"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindGeneric Kind = iota
	KindNetwork
	KindAuth
	KindPermission
	KindRateLimit
	KindValidation
	KindNotFound
	KindConflict
)

var kindStatus = map[Kind]int{
	KindGeneric:    fiber.StatusInternalServerError,
	KindNetwork:    fiber.StatusServiceUnavailable,
	KindAuth:       fiber.StatusUnauthorized,
	KindPermission: fiber.StatusForbidden,
	KindRateLimit:  fiber.StatusTooManyRequests,
	KindValidation: fiber.StatusBadRequest,
	KindNotFound:   fiber.StatusNotFound,
	KindConflict:   fiber.StatusConflict,
}

var kindMessage = map[Kind]string{
	KindGeneric:    "Terjadi kesalahan. Silakan coba lagi",
	KindNetwork:    "Koneksi ke server gagal. Periksa koneksi internet Anda atau coba lagi nanti.",
	KindAuth:       "Email atau password salah",
	KindPermission: "Anda tidak memiliki izin untuk melakukan tindakan ini",
	KindRateLimit:  "Terlalu banyak permintaan. Silakan coba lagi nanti",
	KindValidation: "Data tidak valid",
	KindNotFound:   "Data tidak ditemukan",
	KindConflict:   "Data sudah ada",
}

// Status is the HTTP status for k.
func (k Kind) Status() int { return kindStatus[k] }

// Message is the default user-facing text for k.
func (k Kind) Message() string { return kindMessage[k] }

// Error is a classified failure with the message the client should show.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of kind k. An empty msg falls back to the kind's default.
func New(k Kind, msg string) *Error {
	if msg == "" {
		msg = k.Message()
	}
	return &Error{Kind: k, Message: msg}
}

// Wrap classifies err and replaces the generic message with msg. Specific
// kinds (network, permission, rate limit) keep their own text, and an err that
// is already an *Error passes through unchanged.
func Wrap(err error, msg string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	e := Classify(err)
	if msg != "" && (e.Kind == KindGeneric || e.Kind == KindNotFound) {
		e.Message = msg
	}
	return e
}

func Validation(msg string) *Error { return New(KindValidation, msg) }
func NotFound(msg string) *Error   { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error  { return New(KindPermission, msg) }
func Conflict(msg string) *Error   { return New(KindConflict, msg) }

// Postgres SQLSTATE codes handled explicitly.
const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgCheckViolation        = "23514"
	pgTooManyConnections    = "53300"
)

// Classify maps err onto the taxonomy. It never returns nil for a non-nil err.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &Error{Kind: kindForStatus(fe.Code), Message: fe.Message, Err: err}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: KindNotFound.Message(), Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: KindConflict, Message: KindConflict.Message(), Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInsufficientPrivilege:
			return &Error{Kind: KindPermission, Message: KindPermission.Message(), Err: err}
		case pgUniqueViolation:
			return &Error{Kind: KindConflict, Message: KindConflict.Message(), Err: err}
		case pgForeignKeyViolation:
			return &Error{Kind: KindValidation, Message: "Data masih dipakai atau referensi tidak ditemukan", Err: err}
		case pgCheckViolation:
			return &Error{Kind: KindValidation, Message: KindValidation.Message(), Err: err}
		case pgTooManyConnections:
			return &Error{Kind: KindRateLimit, Message: KindRateLimit.Message(), Err: err}
		}
	}

	if isNetwork(err) {
		return &Error{Kind: KindNetwork, Message: KindNetwork.Message(), Err: err}
	}

	return &Error{Kind: KindGeneric, Message: KindGeneric.Message(), Err: err}
}

func isNetwork(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded)
}

func kindForStatus(code int) Kind {
	switch code {
	case fiber.StatusUnauthorized:
		return KindAuth
	case fiber.StatusForbidden:
		return KindPermission
	case fiber.StatusTooManyRequests:
		return KindRateLimit
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return KindValidation
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	case fiber.StatusServiceUnavailable, fiber.StatusBadGateway, fiber.StatusGatewayTimeout:
		return KindNetwork
	}
	return KindGeneric
}

// Handler is the Fiber ErrorHandler: log everything, answer with the
// localized message, never leak driver details.
func Handler(c *fiber.Ctx, err error) error {
	e := Classify(err)
	status := e.Kind.Status()
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	} else {
		log.Printf("%s %s (%d): %s", c.Method(), c.Path(), status, e.Error())
	}
	return c.Status(status).JSON(fiber.Map{"error": e.Message})
}
