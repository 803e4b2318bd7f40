package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	MsgInvalidInputs  = "invalid inputs"
	MsgAlreadyExists  = "record already exists"
	MsgGeneric        = "something went wrong"
	MsgBadRequest     = "bad request"
	MsgInvalidCreds   = "invalid credentials"
	MsgUnauthorized   = "unauthorized"
	MsgNotFound       = "record not found"
	MsgInvalidToken   = "invalid or expired token"
	MsgVerifyEmailFor = "confirmation email sent"
)

var businessMessages = map[string]string{
	"time_conflict":         "time slot not available",
	"outside_working_hours": "outside doctor working hours",
	"too_soon":              "appointment time must be in the future",
	"invalid_state":         "invalid status change",
	"invalid_credentials":   MsgInvalidCreds,
	"invalid_token":         MsgInvalidToken,
	"email_not_verified":    MsgVerifyEmailFor,
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation
}

func IsExclusionConflict(err error) bool {
	return err != nil && pgCode(err) == pgExclusionViolation
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Message maps an action error to the text shown to the user.
// Transient and permanent storage failures read the same.
func Message(err error) string {
	var be BusinessError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &be):
		if msg, ok := businessMessages[be.Code]; ok {
			return msg
		}
		return MsgBadRequest
	case IsUniqueViolation(err):
		return MsgAlreadyExists
	case IsNotFound(err):
		return MsgNotFound
	default:
		return MsgGeneric
	}
}
