// Package access decides whether a caller may run a protected operation.
//
// Each operation declares one or more flag sets. Flags inside one set are
// alternatives; every declared set must allow. The evaluator never reads
// ambient state: the HTTP layer assembles a CallContext from verified claims
// and the operation's bound arguments.
package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/shared"
)

// ErrSubjectUnresolved marks an operation that declares Self but exposes no
// subject identifier. It is a wiring bug, never an access decision.
var ErrSubjectUnresolved = errors.New("subject identifier required by Self policy was not provided")

// CallContext is the per-call input to an access decision.
type CallContext struct {
	Claims Claims
	Args   Args
}

// Operation is the access declaration attached to a protected operation.
type Operation struct {
	Name     string
	Policies []Flag
	// Subject overrides the registry search when set.
	Subject SubjectFunc
}

// Declare builds an Operation with one policy per flag set.
func Declare(name string, policies ...Flag) Operation {
	return Operation{Name: name, Policies: policies}
}

// WithSubject returns a copy of op using fn to locate the requested subject.
func (op Operation) WithSubject(fn SubjectFunc) Operation {
	op.Subject = fn
	return op
}

// Evaluator applies operation policies to call contexts. It is stateless
// apart from the startup registry and safe for concurrent use.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator builds an Evaluator. A nil registry only resolves direct
// userId arguments.
func NewEvaluator(registry *Registry) *Evaluator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Evaluator{registry: registry}
}

// Evaluate reports whether every policy of op allows cc. An error wrapping
// ErrSubjectUnresolved is returned instead of a decision when a Self policy
// cannot find the requested subject.
func (e *Evaluator) Evaluate(op Operation, cc CallContext) (bool, error) {
	for _, policy := range op.Policies {
		allowed, err := e.allows(op, policy, cc)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

func (e *Evaluator) allows(op Operation, policy Flag, cc CallContext) (bool, error) {
	if policy.Has(Everyone) {
		return true, nil
	}
	if len(cc.Claims) == 0 {
		return false, nil
	}

	if policy.Has(Self) {
		requested, ok := e.requestedSubject(op, cc.Args)
		if !ok {
			return false, fmt.Errorf("access: %s: %w", op.Name, ErrSubjectUnresolved)
		}
		if authorized, ok := cc.Claims.Subject(); ok && authorized == requested {
			return true, nil
		}
	}

	if policy.Has(Admin) && cc.Claims.HasRole(shared.RoleAdmin) {
		return true, nil
	}

	return false, nil
}

func (e *Evaluator) requestedSubject(op Operation, args Args) (uuid.UUID, bool) {
	if op.Subject != nil {
		return op.Subject(args)
	}
	return e.registry.Resolve(args)
}
