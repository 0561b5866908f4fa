package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error는 코드와 HTTP 상태를 함께 가진 도메인 에러입니다.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is는 코드가 같으면 같은 에러로 봅니다. (Clone/Wrap 결과도 errors.Is로 판별 가능)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New는 새 Error를 생성합니다.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap은 원인 에러에 코드와 메시지를 붙입니다.
func Wrap(err error, base *Error, message string) *Error {
	if message == "" {
		message = base.Message
	}
	return &Error{Code: base.Code, Status: base.Status, Message: message, Err: err}
}

// Clone은 메시지만 바꾼 사본을 반환합니다.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromError는 임의의 에러를 *Error로 정규화합니다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, "")
}

var (
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "대상을 찾을 수 없습니다")
	ErrAliasConflict  = New("ALIAS_CONFLICT", http.StatusConflict, "이미 사용 중인 별칭입니다")
	ErrInvalidVariant = New("INVALID_VARIANT", http.StatusUnprocessableEntity, "템플릿 본문이 아닌 공지입니다")
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "입력 값이 올바르지 않습니다")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "내부 오류가 발생했습니다")
)
