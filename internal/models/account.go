package models

import (
	"github.com/go-playground/validator/v10"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the three known roles.
// Role dispatch everywhere else is a switch over these constants with
// an error default, so a bad role never falls through silently.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// StudentProfile carries the Moroccan student record. All fields are
// optional and only populated for student-role accounts.
type StudentProfile struct {
	MassarID      *string  `db:"massar_id" json:"massar_id,omitempty"`
	CNE           *string  `db:"cne" json:"cne,omitempty"`
	CIN           *string  `db:"cin" json:"cin,omitempty"`
	Wilaya        *string  `db:"wilaya" json:"wilaya,omitempty"`
	ClassLevel    *string  `db:"class_level" json:"class_level,omitempty"`
	GuardianName  *string  `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone *string  `db:"guardian_phone" json:"guardian_phone,omitempty"`
	Scholarship   bool     `db:"scholarship" json:"scholarship"`
	FeeStatus     *string  `db:"fee_status" json:"fee_status,omitempty" validate:"omitempty,oneof=paid pending overdue"`
	ConductScore  *float64 `db:"conduct_score" json:"conduct_score,omitempty" validate:"omitempty,gte=0,lte=20"`
}

type Account struct {
	ID           string `db:"id" json:"id"`
	Email        string `db:"email" json:"email" validate:"required,email"`
	Name         string `db:"name" json:"name" validate:"required"`
	Role         Role   `db:"role" json:"role" validate:"required,oneof=student professor admin"`
	PasswordHash []byte `db:"password_hash" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"created_at"`

	StudentProfile
}

func (a *Account) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

// Session is the server-side identity attached to a bearer token.
type Session struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_dttm_utc"`
}
