package identifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

type entity struct {
	id    uuid.UUID
	alias string
}

type lookupStub struct {
	items      []entity
	idCalls    int
	aliasCalls int
}

func (s *lookupStub) FindByID(id uuid.UUID) (entity, error) {
	s.idCalls++
	for _, e := range s.items {
		if e.id == id {
			return e, nil
		}
	}
	return entity{}, errMissing
}

func (s *lookupStub) FindByAlias(alias string) (entity, error) {
	s.aliasCalls++
	for _, e := range s.items {
		if alias != "" && e.alias == alias {
			return e, nil
		}
	}
	return entity{}, errMissing
}

func TestResolveByIDAndAlias(t *testing.T) {
	daily := entity{id: uuid.New(), alias: "daily"}
	anonymous := entity{id: uuid.New()}
	stub := &lookupStub{items: []entity{daily, anonymous}}

	got, err := Resolve[entity](stub, daily.id.String())
	require.NoError(t, err)
	assert.Equal(t, daily, got)

	got, err = Resolve[entity](stub, "daily")
	require.NoError(t, err)
	assert.Equal(t, daily, got)

	got, err = Resolve[entity](stub, anonymous.id.String())
	require.NoError(t, err)
	assert.Equal(t, anonymous, got)

	assert.Equal(t, 2, stub.idCalls)
	assert.Equal(t, 1, stub.aliasCalls)
}

func TestResolveMissing(t *testing.T) {
	stub := &lookupStub{items: []entity{{id: uuid.New(), alias: "daily"}}}

	_, err := Resolve[entity](stub, uuid.NewString())
	assert.ErrorIs(t, err, errMissing)
	assert.Equal(t, 0, stub.aliasCalls)

	_, err = Resolve[entity](stub, "weekly")
	assert.ErrorIs(t, err, errMissing)

	_, err = Resolve[entity](stub, "")
	assert.ErrorIs(t, err, errMissing)
}

func TestValidAlias(t *testing.T) {
	cases := []struct {
		alias string
		want  bool
	}{
		{"daily", true},
		{"아침-공지", true},
		{"", false},
		{"two words", false},
		{"tab\tsep", false},
		{uuid.NewString(), false},
		{"0123456789abcdef0123456789abcdef", false},
		{strings.Repeat("x", MaxAliasLength), true},
		{strings.Repeat("x", MaxAliasLength+1), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidAlias(tc.alias), tc.alias)
	}
}

func TestNewValidatorRegistersAlias(t *testing.T) {
	type form struct {
		Alias string `validate:"omitempty,alias"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(form{}))
	assert.NoError(t, v.Struct(form{Alias: "daily"}))
	assert.Error(t, v.Struct(form{Alias: "bad alias"}))
}
