package roles

import "github.com/google/uuid"

// Role is a named grouping assigned to users. Names are unique and
// case-sensitive.
type Role struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// WithoutIDDTO is the public projection of a role and the create payload.
type WithoutIDDTO struct {
	Name string `json:"name" validate:"required,notblank"`
}

// WithIDDTO carries a role including its identifier.
type WithIDDTO struct {
	ID   uuid.UUID `json:"id" validate:"required"`
	Name string    `json:"name" validate:"required,notblank"`
}

// UpdateByOldNameDTO renames a role looked up by its current name.
type UpdateByOldNameDTO struct {
	OldName string `json:"oldName" validate:"required,notblank"`
	NewName string `json:"newName" validate:"required,notblank"`
}

func toWithoutID(r Role) WithoutIDDTO {
	return WithoutIDDTO{Name: r.Name}
}

func toWithID(r Role) WithIDDTO {
	return WithIDDTO{ID: r.ID, Name: r.Name}
}
