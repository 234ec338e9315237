package access

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SubjectParam is the argument name that directly carries the requested
// subject identifier.
const SubjectParam = "userId"

// SubjectFunc extracts the requested subject identifier from call arguments.
type SubjectFunc func(Args) (uuid.UUID, bool)

type accessor func(any) (uuid.UUID, bool)

var uuidType = reflect.TypeOf(uuid.UUID{})

// Registry maps DTO types to subject accessors. It is filled once at
// startup; lookups during a call never scan fields.
type Registry struct {
	mu        sync.RWMutex
	accessors map[reflect.Type]accessor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{accessors: make(map[reflect.Type]accessor)}
}

// RegisterSubject registers a typed accessor for DTOs of type T. Both T and
// *T arguments resolve through it.
func RegisterSubject[T any](r *Registry, get func(T) uuid.UUID) {
	r.store(reflect.TypeOf((*T)(nil)).Elem(), func(v any) (uuid.UUID, bool) {
		typed, ok := v.(T)
		if !ok {
			return uuid.Nil, false
		}
		return get(typed), true
	})
}

// RegisterConvention inspects sample's struct type once and registers the
// first exported field named userId (any case) of type uuid.UUID.
func (r *Registry) RegisterConvention(sample any) error {
	t := reflect.TypeOf(sample)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("access: register %T: not a struct", sample)
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type != uuidType {
			continue
		}
		if !strings.EqualFold(field.Name, SubjectParam) {
			continue
		}
		index := field.Index
		r.store(t, func(v any) (uuid.UUID, bool) {
			rv := reflect.ValueOf(v)
			if rv.Type() != t {
				return uuid.Nil, false
			}
			return rv.FieldByIndex(index).Interface().(uuid.UUID), true
		})
		return nil
	}
	return fmt.Errorf("access: register %s: no %s field of type uuid.UUID", t, SubjectParam)
}

// MustRegisterConvention is RegisterConvention for startup wiring.
func (r *Registry) MustRegisterConvention(samples ...any) {
	for _, sample := range samples {
		if err := r.RegisterConvention(sample); err != nil {
			panic(err)
		}
	}
}

// Resolve finds the requested subject: a direct userId argument wins, then
// the first argument whose name contains "dto" and whose type is registered.
func (r *Registry) Resolve(args Args) (uuid.UUID, bool) {
	if raw, ok := args.Lookup(SubjectParam); ok {
		if id, ok := asUUID(raw); ok {
			return id, true
		}
	}
	for _, arg := range args {
		if !strings.Contains(strings.ToLower(arg.Name), "dto") || arg.Value == nil {
			continue
		}
		if id, ok := r.lookup(arg.Value); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (r *Registry) lookup(v any) (uuid.UUID, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return uuid.Nil, false
		}
		rv = rv.Elem()
	}
	r.mu.RLock()
	get, ok := r.accessors[rv.Type()]
	r.mu.RUnlock()
	if !ok {
		return uuid.Nil, false
	}
	return get(rv.Interface())
}

func (r *Registry) store(t reflect.Type, get accessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessors[t] = get
}

func asUUID(v any) (uuid.UUID, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, true
	case *uuid.UUID:
		if id == nil {
			return uuid.Nil, false
		}
		return *id, true
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, false
		}
		return parsed, true
	default:
		return uuid.Nil, false
	}
}
