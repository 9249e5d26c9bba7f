package models

import (
	"github.com/go-playground/validator/v10"
)

// Grade is a term grade on the Moroccan 0-20 scale. The range check is
// enforced both here and at the database level.
type Grade struct {
	ID           string  `db:"id" json:"id"`
	StudentID    string  `db:"student_id" json:"student_id" validate:"required"`
	CourseID     string  `db:"course_id" json:"course_id" validate:"required"`
	Subject      string  `db:"subject" json:"subject" validate:"required"`
	Value        float64 `db:"value" json:"value" validate:"gte=0,lte=20"`
	Coefficient  float64 `db:"coefficient" json:"coefficient" validate:"gte=0"`
	Term         string  `db:"term" json:"term"`
	AcademicYear string  `db:"academic_year" json:"academic_year"`
	CreatedAt    int64   `db:"created_at" json:"created_at"`
}

func (g *Grade) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}
