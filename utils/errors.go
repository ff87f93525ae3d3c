package utils

import (
	"errors"
	"net/http"
)

// Taksonomi error inti. Setiap operasi publik mengembalikan salah satu
// sentinel ini (dibungkus fmt.Errorf dengan %w) supaya caller bisa
// membedakan jenis kegagalan lewat errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrImmutable       = errors.New("immutable")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNothingToSend   = errors.New("nothing to send")
	ErrIncompleteOrder = errors.New("incomplete order")
)

// StatusForError -> pemetaan jenis error ke kode HTTP untuk controller
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrImmutable),
		errors.Is(err, ErrNothingToSend),
		errors.Is(err, ErrIncompleteOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
