// Package identifier는 "ID 또는 별칭" 참조를 엔티티로 해석합니다.
// 공지와 템플릿이 같은 규칙을 공유합니다.
package identifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxAliasLength는 별칭의 최대 글자 수입니다.
const MaxAliasLength = 64

// Lookup은 ID와 별칭 두 가지 조회 경로를 제공하는 저장소입니다.
type Lookup[T any] interface {
	FindByID(id uuid.UUID) (T, error)
	FindByAlias(alias string) (T, error)
}

// Resolve는 token을 먼저 ID로 파싱해 보고, 실패하면 별칭으로 조회합니다.
// 형식이 잘못된 참조와 존재하지 않는 참조는 모두 lookup이 돌려주는 NotFound로 귀결됩니다.
func Resolve[T any](lookup Lookup[T], token string) (T, error) {
	if id, err := uuid.Parse(token); err == nil {
		return lookup.FindByID(id)
	}
	return lookup.FindByAlias(token)
}

// ValidAlias는 별칭으로 쓸 수 있는 문자열인지 검사합니다.
// ID로 파싱되는 문자열은 별칭으로 조회될 수 없으므로 거부합니다.
func ValidAlias(alias string) bool {
	if alias == "" || utf8.RuneCountInString(alias) > MaxAliasLength {
		return false
	}
	if strings.IndexFunc(alias, unicode.IsSpace) >= 0 {
		return false
	}
	if _, err := uuid.Parse(alias); err == nil {
		return false
	}
	return true
}

// RegisterValidation은 validator에 'alias' 태그를 등록합니다.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return ValidAlias(fl.Field().String())
	})
}

// NewValidator는 'alias' 태그가 등록된 validator를 생성합니다.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidation(v); err != nil {
		panic(err)
	}
	return v
}
