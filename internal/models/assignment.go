package models

import (
	"github.com/go-playground/validator/v10"
)

type Assignment struct {
	ID          string  `db:"id" json:"id"`
	CourseID    string  `db:"course_id" json:"course_id" validate:"required"`
	Title       string  `db:"title" json:"title" validate:"required"`
	Description string  `db:"description" json:"description"`
	DueDate     int64   `db:"due_date" json:"due_date"`
	MaxPoints   float64 `db:"max_points" json:"max_points" validate:"gte=0"`
	CreatedAt   int64   `db:"created_at" json:"created_at"`
}

func (a *Assignment) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionReturned  SubmissionStatus = "returned"
)

type Submission struct {
	ID           string           `db:"id" json:"id"`
	AssignmentID string           `db:"assignment_id" json:"assignment_id" validate:"required"`
	StudentID    string           `db:"student_id" json:"student_id" validate:"required"`
	Content      string           `db:"content" json:"content"`
	Grade        *float64         `db:"grade" json:"grade,omitempty" validate:"omitempty,gte=0"`
	Status       SubmissionStatus `db:"status" json:"status" validate:"required,oneof=submitted graded returned"`
	SubmittedAt  int64            `db:"submitted_at" json:"submitted_at"`
	GradedAt     *int64           `db:"graded_at" json:"graded_at,omitempty"`
}

func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
