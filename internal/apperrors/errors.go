// Package apperrors définit la taxonomie d'erreurs partagée par les services
// et sa traduction en statut HTTP.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInternal          = errors.New("internal error")
)

// Error porte un type (Kind), un message destiné au client et la cause éventuelle
type Error struct {
	Kind    error
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// WithDetails ajoute des informations structurées renvoyées au client
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(message string) *Error {
	return New(ErrInvalidRequest, message)
}

func NotFound(message string) *Error {
	return New(ErrNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(ErrUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(ErrForbidden, message)
}

func Conflict(message string) *Error {
	return New(ErrConflict, message)
}

func InsufficientStock(message string) *Error {
	return New(ErrInsufficientStock, message)
}

func Internal(message string, err error) *Error {
	return Wrap(ErrInternal, message, err)
}

var kinds = []struct {
	kind   error
	status int
	code   string
}{
	{ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrConflict, http.StatusConflict, "CONFLICT"},
	{ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
}

// HTTPStatus : toute erreur non typée est une erreur interne (500)
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.code
		}
	}
	return "INTERNAL_ERROR"
}

// IsTyped indique si l'erreur appartient déjà à la taxonomie
func IsTyped(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// PublicMessage retourne le message sûr à exposer au client
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.Kind, ErrInternal) {
		return e.Message
	}
	return "Erreur interne du serveur"
}

// PublicDetails retourne les détails structurés éventuels
func PublicDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.Kind, ErrInternal) {
		return e.Details
	}
	return nil
}

// Response construit le statut et le corps JSON renvoyés au client
func Response(err error) (int, map[string]interface{}) {
	body := map[string]interface{}{
		"error": PublicMessage(err),
		"code":  Code(err),
	}
	if details := PublicDetails(err); len(details) > 0 {
		body["details"] = details
	}
	return HTTPStatus(err), body
}
