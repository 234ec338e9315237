package access_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/todo/internal/access"
)

type noteDTO struct {
	UserID uuid.UUID
	Title  string
}

type lowerDTO struct {
	Userid uuid.UUID
}

func callerClaims(id uuid.UUID, roles ...string) access.Claims {
	claims := access.Claims{
		{Type: access.ClaimName, Value: "alice"},
		{Type: access.ClaimSubject, Value: id.String()},
	}
	for _, r := range roles {
		claims = append(claims, access.Claim{Type: access.ClaimRole, Value: r})
	}
	return claims
}

func newEvaluator(t *testing.T) *access.Evaluator {
	t.Helper()
	registry := access.NewRegistry()
	require.NoError(t, registry.RegisterConvention(noteDTO{}))
	require.NoError(t, registry.RegisterConvention(&lowerDTO{}))
	return access.NewEvaluator(registry)
}

func TestEveryoneAllowsWithoutClaims(t *testing.T) {
	ev := newEvaluator(t)

	allowed, err := ev.Evaluate(access.Declare("roles.list", access.Everyone), access.CallContext{})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ev.Evaluate(access.Declare("roles.list", access.Everyone|access.Self), access.CallContext{})
	require.NoError(t, err)
	assert.True(t, allowed, "Everyone short-circuits before Self is inspected")
}

func TestNoPoliciesAllows(t *testing.T) {
	allowed, err := newEvaluator(t).Evaluate(access.Operation{Name: "open"}, access.CallContext{})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMissingClaimsDeny(t *testing.T) {
	ev := newEvaluator(t)
	op := access.Declare("users.get", access.Self)

	allowed, err := ev.Evaluate(op, access.CallContext{Args: access.Args{{Name: "userId", Value: uuid.New()}}})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSelfAllowsMatchingUserID(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()

	allowed, err := ev.Evaluate(access.Declare("users.get", access.Self), access.CallContext{
		Claims: callerClaims(me),
		Args:   access.Args{{Name: "userId", Value: me}},
	})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestSelfDeniesOtherUserID(t *testing.T) {
	ev := newEvaluator(t)

	allowed, err := ev.Evaluate(access.Declare("users.get", access.Self), access.CallContext{
		Claims: callerClaims(uuid.New()),
		Args:   access.Args{{Name: "userId", Value: uuid.New()}},
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSelfAcceptsUserIDString(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()

	allowed, err := ev.Evaluate(access.Declare("users.get", access.Self), access.CallContext{
		Claims: callerClaims(me),
		Args:   access.Args{{Name: "userId", Value: me.String()}},
	})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestSelfResolvesFromDTO(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()

	for _, tc := range []struct {
		name string
		arg  access.Arg
	}{
		{"value dto", access.Arg{Name: "noteDto", Value: noteDTO{UserID: me}}},
		{"pointer dto", access.Arg{Name: "NoteDTO", Value: &noteDTO{UserID: me}}},
		{"field name case", access.Arg{Name: "payloadDto", Value: lowerDTO{Userid: me}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := ev.Evaluate(access.Declare("notes.update", access.Self), access.CallContext{
				Claims: callerClaims(me),
				Args:   access.Args{{Name: "title", Value: "x"}, tc.arg},
			})
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestDirectUserIDTakesPrecedenceOverDTO(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()
	other := uuid.New()
	op := access.Declare("notes.update", access.Self)

	allowed, err := ev.Evaluate(op, access.CallContext{
		Claims: callerClaims(me),
		Args: access.Args{
			{Name: "noteDto", Value: noteDTO{UserID: other}},
			{Name: "userId", Value: me},
		},
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ev.Evaluate(op, access.CallContext{
		Claims: callerClaims(me),
		Args: access.Args{
			{Name: "noteDto", Value: noteDTO{UserID: me}},
			{Name: "userId", Value: other},
		},
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSelfWithoutSubjectIsConfigurationError(t *testing.T) {
	ev := newEvaluator(t)

	for _, args := range []access.Args{
		nil,
		{{Name: "id", Value: uuid.New()}},
		{{Name: "payload", Value: noteDTO{UserID: uuid.New()}}},
		{{Name: "unknownDto", Value: struct{ UserID uuid.UUID }{uuid.New()}}},
	} {
		allowed, err := ev.Evaluate(access.Declare("notes.update", access.Self), access.CallContext{
			Claims: callerClaims(uuid.New()),
			Args:   args,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, access.ErrSubjectUnresolved)
		assert.Contains(t, err.Error(), "notes.update")
		assert.False(t, allowed)
	}
}

func TestExplicitSubjectFuncOverridesRegistry(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()
	op := access.Declare("tasks.move", access.Self).WithSubject(func(args access.Args) (uuid.UUID, bool) {
		v, ok := args.Lookup("ownerId")
		if !ok {
			return uuid.Nil, false
		}
		id, ok := v.(uuid.UUID)
		return id, ok
	})

	allowed, err := ev.Evaluate(op, access.CallContext{
		Claims: callerClaims(me),
		Args:   access.Args{{Name: "ownerId", Value: me}, {Name: "userId", Value: uuid.New()}},
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	_, err = ev.Evaluate(op, access.CallContext{Claims: callerClaims(me), Args: access.Args{{Name: "userId", Value: me}}})
	assert.ErrorIs(t, err, access.ErrSubjectUnresolved)
}

func TestAdminFlag(t *testing.T) {
	ev := newEvaluator(t)
	op := access.Declare("roles.create", access.Admin)

	allowed, err := ev.Evaluate(op, access.CallContext{Claims: callerClaims(uuid.New(), "Admin")})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ev.Evaluate(op, access.CallContext{Claims: callerClaims(uuid.New(), "Client", "admin")})
	require.NoError(t, err)
	assert.False(t, allowed, "role names are case-sensitive")
}

func TestSelfOrAdmin(t *testing.T) {
	ev := newEvaluator(t)
	op := access.Declare("users.get", access.Self|access.Admin)
	target := access.Args{{Name: "userId", Value: uuid.New()}}

	allowed, err := ev.Evaluate(op, access.CallContext{Claims: callerClaims(uuid.New(), "Admin"), Args: target})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ev.Evaluate(op, access.CallContext{Claims: callerClaims(uuid.New(), "Client"), Args: target})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRepeatedPoliciesMustAllPass(t *testing.T) {
	ev := newEvaluator(t)
	me := uuid.New()
	op := access.Declare("users.purge", access.Self, access.Admin)
	args := access.Args{{Name: "userId", Value: me}}

	allowed, err := ev.Evaluate(op, access.CallContext{Claims: callerClaims(me, "Admin"), Args: args})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ev.Evaluate(op, access.CallContext{Claims: callerClaims(me, "Client"), Args: args})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = ev.Evaluate(op, access.CallContext{Claims: callerClaims(uuid.New(), "Admin"), Args: args})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestClaimsWithoutSubjectDenySelf(t *testing.T) {
	ev := newEvaluator(t)
	claims := access.Claims{{Type: access.ClaimEmail, Value: "a@example.com"}}

	allowed, err := ev.Evaluate(access.Declare("users.get", access.Self), access.CallContext{
		Claims: claims,
		Args:   access.Args{{Name: "userId", Value: uuid.New()}},
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}
