package models

import (
	"github.com/go-playground/validator/v10"
)

// Event is a calendar item. OwnerID is optional: events with no owner
// are visible to everyone.
type Event struct {
	ID          string  `db:"id" json:"id"`
	Title       string  `db:"title" json:"title" validate:"required"`
	StartsAt    int64   `db:"starts_at" json:"starts_at"`
	Kind        string  `db:"kind" json:"kind"`
	Description string  `db:"description" json:"description"`
	OwnerID     *string `db:"owner_id" json:"owner_id,omitempty"`
}

func (e *Event) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

// AudienceAll targets an announcement at every role.
const AudienceAll = "all"

type Announcement struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title" validate:"required"`
	Body      string `db:"body" json:"body" validate:"required"`
	Audience  string `db:"audience" json:"audience" validate:"required,oneof=all student professor admin"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

func (a *Announcement) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

type Notification struct {
	ID        string `db:"id" json:"id"`
	AccountID string `db:"account_id" json:"account_id" validate:"required"`
	Title     string `db:"title" json:"title" validate:"required"`
	Message   string `db:"message" json:"message"`
	Read      bool   `db:"read" json:"read"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

func (n *Notification) Validate() error {
	validate := validator.New()
	return validate.Struct(n)
}
