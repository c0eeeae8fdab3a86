package models

import (
	"errors"
	"fmt"
)

// ErrorKind - категория доменной ошибки, по ней шлюз выбирает HTTP статус
type ErrorKind string

const (
	KindInvalidCredentials   ErrorKind = "InvalidCredentials"
	KindInvalidToken         ErrorKind = "InvalidToken"
	KindAccountDisabled      ErrorKind = "AccountDisabled"
	KindForbidden            ErrorKind = "Forbidden"
	KindNotFound             ErrorKind = "NotFound"
	KindDuplicateEmail       ErrorKind = "DuplicateEmail"
	KindInvalidRole          ErrorKind = "InvalidRole"
	KindInvalidTransition    ErrorKind = "InvalidTransition"
	KindInvalidAssignee      ErrorKind = "InvalidAssignee"
	KindUnsupportedMediaType ErrorKind = "UnsupportedMediaType"
	KindFileTooLarge         ErrorKind = "FileTooLarge"
	KindValidation           ErrorKind = "ValidationError"
	KindInternal             ErrorKind = "InternalError"
)

// Error - доменная ошибка с категорией. errors.Is сравнивает только категорию,
// поэтому errors.Is(err, ErrNotFound) срабатывает для любого NotFound с уточненным сообщением.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrInvalidToken         = &Error{Kind: KindInvalidToken, Message: "invalid or expired token"}
	ErrAccountDisabled      = &Error{Kind: KindAccountDisabled, Message: "account is disabled"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "action is not allowed for this role"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateEmail       = &Error{Kind: KindDuplicateEmail, Message: "email is already registered"}
	ErrInvalidRole          = &Error{Kind: KindInvalidRole, Message: "invalid role"}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrInvalidAssignee      = &Error{Kind: KindInvalidAssignee, Message: "assignee must be a first responder or admin"}
	ErrUnsupportedMediaType = &Error{Kind: KindUnsupportedMediaType, Message: "only non-empty image or audio files are accepted"}
	ErrFileTooLarge         = &Error{Kind: KindFileTooLarge, Message: "file is too large"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation failed"}
)

// NewError создает доменную ошибку с уточненным сообщением
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError извлекает доменную ошибку из цепочки
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
