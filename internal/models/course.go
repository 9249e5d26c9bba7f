package models

import (
	"github.com/go-playground/validator/v10"
)

type Course struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title" validate:"required"`
	ProfessorID string `db:"professor_id" json:"professor_id" validate:"required"`
	ClassLevel  string `db:"class_level" json:"class_level"`
	// Schedule is a free-form descriptor (day/time/room), kept loosely
	// typed on purpose.
	Schedule  string `db:"schedule" json:"schedule"`
	Active    bool   `db:"active" json:"active"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

func (c *Course) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment is the sole link between students and courses. Every
// student-scoped and professor-scoped query joins through it.
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id" validate:"required"`
	CourseID  string           `db:"course_id" json:"course_id" validate:"required"`
	Status    EnrollmentStatus `db:"status" json:"status" validate:"required,oneof=active completed dropped"`
	CreatedAt int64            `db:"created_at" json:"created_at"`
}

func (e *Enrollment) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
