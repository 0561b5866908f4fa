package announcement

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/apperrors"
	"herald/internal/storage"
	"herald/internal/template"
)

func newTestService(t *testing.T) (*Service, *template.Store) {
	t.Helper()
	backend, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	templates := template.NewStore(backend)
	return NewService(NewStore(backend), NewRenderer(templates), nil), templates
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Create("daily")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, "daily", a.Alias)
	assert.False(t, a.Enabled)
	assert.Empty(t, a.Groups)
	assert.Empty(t, a.Triggers)
	assert.Nil(t, a.Body)

	anonymous, err := svc.Create("")
	require.NoError(t, err)
	assert.Empty(t, anonymous.Alias)
	assert.NotEqual(t, a.ID, anonymous.ID)
}

func TestCreateRejectsInvalidAlias(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create("two words")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.Create(uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAliasUniqueness(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	before, err := svc.GetAll()
	require.NoError(t, err)

	_, err = svc.Create("daily")
	assert.ErrorIs(t, err, apperrors.ErrAliasConflict)

	after, err := svc.GetAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRenameIntoCollidingAliasFails(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	weekly, err := svc.Create("weekly")
	require.NoError(t, err)

	_, err = svc.Rename("weekly", "daily")
	assert.ErrorIs(t, err, apperrors.ErrAliasConflict)

	got, err := svc.Get(weekly.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly", got.Alias)

	renamed, err := svc.Rename("weekly", "monthly")
	require.NoError(t, err)
	assert.Equal(t, "monthly", renamed.Alias)
	_, err = svc.Resolve("weekly")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	cleared, err := svc.Rename("monthly", "")
	require.NoError(t, err)
	assert.Empty(t, cleared.Alias)
}

func TestDualIdentityResolution(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create("daily")
	require.NoError(t, err)

	byID, err := svc.Resolve(a.ID.String())
	require.NoError(t, err)
	byAlias, err := svc.Resolve("daily")
	require.NoError(t, err)
	assert.Equal(t, byID, byAlias)

	_, err = svc.Resolve(uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Resolve("nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeletionFinality(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.Enable("daily")
	require.NoError(t, err)

	deleted, err := svc.Delete("daily")
	require.NoError(t, err)
	assert.Equal(t, a.ID, deleted.ID)

	_, err = svc.Resolve(a.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Resolve("daily")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Delete("daily")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	again, err := svc.Create("daily")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, again.ID)
}

func TestAddGroupIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.AddGroup("daily", 1)
	require.NoError(t, err)

	_, err = svc.AddGroup("daily", 100)
	require.NoError(t, err)
	a, err := svc.AddGroup("daily", 100)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 100}, a.Groups)
}

func TestRemoveGroup(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.AddGroup("daily", 100)
	require.NoError(t, err)

	a, removed, err := svc.RemoveGroup("daily", 100)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, a.Groups)

	a, removed, err = svc.RemoveGroup("daily", 100)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NotNil(t, a)

	_, _, err = svc.RemoveGroup("missing", 100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddTriggerIsIdempotentByID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	trigger := NewTrigger("0 9 * * *")

	_, err = svc.AddTrigger("daily", trigger)
	require.NoError(t, err)
	a, err := svc.AddTrigger("daily", trigger)
	require.NoError(t, err)
	assert.Len(t, a.Triggers, 1)

	// 같은 식이라도 ID가 다르면 별개의 트리거입니다.
	a, err = svc.AddTrigger("daily", NewTrigger("0 9 * * *"))
	require.NoError(t, err)
	assert.Len(t, a.Triggers, 2)
}

func TestRemoveAndClearTriggers(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	first := NewTrigger("0 9 * * *")
	second := NewTrigger("0 18 * * *")
	_, err = svc.AddTrigger("daily", first)
	require.NoError(t, err)
	_, err = svc.AddTrigger("daily", second)
	require.NoError(t, err)

	a, removed, err := svc.RemoveTrigger("daily", first.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []Trigger{second}, a.Triggers)

	_, removed, err = svc.RemoveTrigger("daily", first.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	a, err = svc.ClearTriggers("daily")
	require.NoError(t, err)
	assert.Empty(t, a.Triggers)
}

func TestSetBodyReplacesAcrossVariants(t *testing.T) {
	svc, templates := newTestService(t)
	tmpl, err := templates.Create("welcome", "Welcome {name}")
	require.NoError(t, err)
	_, err = svc.Create("daily")
	require.NoError(t, err)

	a, err := svc.SetBody("daily", TemplateBody(tmpl.ID, Vars{{"name", "Ann"}}))
	require.NoError(t, err)
	assert.Equal(t, BodyTemplate, a.Body.Kind)

	a, err = svc.SetBody("daily", PlainBody("Hello"))
	require.NoError(t, err)
	assert.Equal(t, &Body{Kind: BodyPlain, Content: "Hello"}, a.Body)
	assert.Equal(t, "Hello", svc.Render(a))
}

func TestVariablesRequireTemplateBody(t *testing.T) {
	svc, templates := newTestService(t)
	tmpl, err := templates.Create("", "Welcome {name}")
	require.NoError(t, err)
	_, err = svc.Create("daily")
	require.NoError(t, err)

	_, err = svc.SetVariables("daily", Vars{{"name", "Ann"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidVariant)

	_, err = svc.SetBody("daily", PlainBody("Hello"))
	require.NoError(t, err)
	_, err = svc.SetVariables("daily", Vars{{"name", "Ann"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidVariant)
	_, _, err = svc.UnsetVariables("daily", "name")
	assert.ErrorIs(t, err, apperrors.ErrInvalidVariant)

	_, err = svc.SetBody("daily", TemplateBody(tmpl.ID, Vars{{"name", "Ann"}}))
	require.NoError(t, err)
	a, err := svc.SetVariables("daily", Vars{{"day", "Mon"}, {"name", "Bob"}})
	require.NoError(t, err)
	assert.Equal(t, Vars{{"name", "Bob"}, {"day", "Mon"}}, a.Body.Vars)

	a, removed, err := svc.UnsetVariables("daily", "name", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, removed)
	assert.Equal(t, Vars{{"day", "Mon"}}, a.Body.Vars)
}

func TestEnableIsReentrant(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.AddGroup("daily", 100)
	require.NoError(t, err)

	enabled, err := svc.Enable("daily")
	require.NoError(t, err)
	assert.True(t, enabled.Enabled)
	before, err := svc.Get(enabled.ID)
	require.NoError(t, err)

	_, err = svc.Enable("daily")
	require.NoError(t, err)
	after, err := svc.Get(enabled.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

	disabled, err := svc.Disable("daily")
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)
	assert.Equal(t, []int64{100}, disabled.Groups)

	n, err := svc.CountEnabled()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMutationsOnMissingAnnouncement(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddGroup("ghost", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.SetBody(uuid.NewString(), PlainBody("x"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Enable("ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Preview("ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentGroupAdds(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create("daily")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := int64(1); g <= 25; g++ {
		wg.Add(1)
		go func(g int64) {
			defer wg.Done()
			_, err := svc.AddGroup("daily", g)
			assert.NoError(t, err)
		}(g)
	}
	wg.Wait()

	a, err := svc.Resolve("daily")
	require.NoError(t, err)
	assert.Len(t, a.Groups, 25)
}

func TestEndToEndScenario(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.AddGroup("daily", 100)
	require.NoError(t, err)
	_, err = svc.AddTrigger("daily", NewTrigger("0 9 * * *"))
	require.NoError(t, err)
	_, err = svc.SetBody("daily", PlainBody("Good morning"))
	require.NoError(t, err)
	_, err = svc.Enable("daily")
	require.NoError(t, err)

	a, err := svc.Resolve("daily")
	require.NoError(t, err)
	assert.True(t, a.Enabled)
	assert.True(t, a.Eligible())
	assert.Equal(t, []int64{100}, a.Groups)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "0 9 * * *", a.Triggers[0].Cron)
	assert.Equal(t, "Good morning", svc.Render(a))

	preview, err := svc.Preview(a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Good morning", preview)
}
