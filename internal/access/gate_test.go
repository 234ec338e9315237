package access_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/shared"
)

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveAccess(op, outcome string) {
	o.outcomes = append(o.outcomes, op+":"+outcome)
}

func userIDBinder(id string) access.Binder {
	return func(r *http.Request) (access.Args, error) {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: userId", shared.ErrInvalidInput)
		}
		return access.Args{{Name: "userId", Value: parsed}}, nil
	}
}

func serve(gate *access.Gate, ep access.Endpoint, claims access.Claims) (*httptest.ResponseRecorder, bool) {
	called := false
	ep.Handle = func(w http.ResponseWriter, r *http.Request, args access.Args) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/users/x", nil)
	if claims != nil {
		req = req.WithContext(access.ContextWithClaims(req.Context(), claims))
	}
	rr := httptest.NewRecorder()
	gate.Handler(ep).ServeHTTP(rr, req)
	return rr, called
}

func TestGateAllows(t *testing.T) {
	obs := &recordingObserver{}
	gate := access.NewGate(newEvaluator(t), nil, obs)
	me := uuid.New()

	rr, called := serve(gate, access.Endpoint{
		Operation: access.Declare("users.get", access.Self),
		Bind:      userIDBinder(me.String()),
	}, callerClaims(me))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{"users.get:allow"}, obs.outcomes)
}

func TestGateDeniesWithFixedPayload(t *testing.T) {
	obs := &recordingObserver{}
	gate := access.NewGate(newEvaluator(t), nil, obs)

	rr, called := serve(gate, access.Endpoint{
		Operation: access.Declare("users.get", access.Self),
		Bind:      userIDBinder(uuid.NewString()),
	}, callerClaims(uuid.New()))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"Message":"Access to requested data denied."}`, rr.Body.String())
	assert.Equal(t, []string{"users.get:deny"}, obs.outcomes)
}

func TestGateAnonymousDenied(t *testing.T) {
	gate := access.NewGate(newEvaluator(t), nil, nil)

	rr, called := serve(gate, access.Endpoint{
		Operation: access.Declare("users.get", access.Self),
		Bind:      userIDBinder(uuid.NewString()),
	}, nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGateConfigurationErrorIsNotADeny(t *testing.T) {
	obs := &recordingObserver{}
	gate := access.NewGate(newEvaluator(t), nil, obs)

	rr, called := serve(gate, access.Endpoint{
		Operation: access.Declare("users.broken", access.Self),
	}, callerClaims(uuid.New()))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, []string{"users.broken:config_error"}, obs.outcomes)
}

func TestGateBindFailureIsBadRequest(t *testing.T) {
	gate := access.NewGate(newEvaluator(t), nil, nil)

	rr, called := serve(gate, access.Endpoint{
		Operation: access.Declare("users.get", access.Self),
		Bind:      userIDBinder("nope"),
	}, callerClaims(uuid.New()))

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGateEveryoneWithoutClaims(t *testing.T) {
	gate := access.NewGate(newEvaluator(t), nil, nil)

	rr, called := serve(gate, access.Endpoint{Operation: access.Declare("auth.login", access.Everyone)}, nil)

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
