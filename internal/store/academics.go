package store

import (
	"database/sql"
	"fmt"

	"github.com/edusphere/backend/internal/models"
)

func (s *BaseStore) CreateAssignment(a *models.Assignment) error {
	a.ID = newID(a.ID)
	a.CreatedAt = stampNow(a.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO assignments (id, course_id, title, description, due_date, max_points, created_at)
		VALUES (:id, :course_id, :title, :description, :due_date, :max_points, :created_at)
	`, a)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (s *BaseStore) GetAssignment(id string) (*models.Assignment, error) {
	var a models.Assignment
	query := s.Converter(`
		SELECT id, course_id, title, description, due_date, max_points, created_at
		FROM assignments
		WHERE id = ?
	`)

	err := s.DB.Get(&a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

func (s *BaseStore) ListAssignments() ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.DB.Select(&assignments, `
		SELECT id, course_id, title, description, due_date, max_points, created_at
		FROM assignments
		ORDER BY due_date, title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) ListAssignmentsByCourses(courseIDs []string) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var assignments []models.Assignment
	err := s.selectIn(&assignments, `
		SELECT id, course_id, title, description, due_date, max_points, created_at
		FROM assignments
		WHERE course_id IN (?)
		ORDER BY due_date, title
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments by courses: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) ListAssignmentsDueBetween(from, to int64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := s.Converter(`
		SELECT id, course_id, title, description, due_date, max_points, created_at
		FROM assignments
		WHERE due_date >= ? AND due_date < ?
		ORDER BY due_date
	`)

	err := s.DB.Select(&assignments, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments due between: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) UpdateAssignment(a *models.Assignment) error {
	res, err := s.DB.NamedExec(`
		UPDATE assignments SET
			course_id = :course_id,
			title = :title,
			description = :description,
			due_date = :due_date,
			max_points = :max_points
		WHERE id = :id
	`, a)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteAssignment(id string) error {
	query := s.Converter(`DELETE FROM assignments WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateSubmission(sub *models.Submission) error {
	sub.ID = newID(sub.ID)
	sub.SubmittedAt = stampNow(sub.SubmittedAt)
	if sub.Status == "" {
		sub.Status = models.SubmissionSubmitted
	}
	_, err := s.DB.NamedExec(`
		INSERT INTO submissions (id, assignment_id, student_id, content, grade, status, submitted_at, graded_at)
		VALUES (:id, :assignment_id, :student_id, :content, :grade, :status, :submitted_at, :graded_at)
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (s *BaseStore) GetSubmission(id string) (*models.Submission, error) {
	var sub models.Submission
	query := s.Converter(`
		SELECT id, assignment_id, student_id, content, grade, status, submitted_at, graded_at
		FROM submissions
		WHERE id = ?
	`)

	err := s.DB.Get(&sub, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

func (s *BaseStore) ListSubmissions() ([]models.Submission, error) {
	var subs []models.Submission
	err := s.DB.Select(&subs, `
		SELECT id, assignment_id, student_id, content, grade, status, submitted_at, graded_at
		FROM submissions
		ORDER BY submitted_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

func (s *BaseStore) ListSubmissionsByStudent(studentID string) ([]models.Submission, error) {
	var subs []models.Submission
	query := s.Converter(`
		SELECT id, assignment_id, student_id, content, grade, status, submitted_at, graded_at
		FROM submissions
		WHERE student_id = ?
		ORDER BY submitted_at
	`)

	err := s.DB.Select(&subs, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by student: %w", err)
	}
	return subs, nil
}

func (s *BaseStore) ListSubmissionsByAssignment(assignmentID string) ([]models.Submission, error) {
	var subs []models.Submission
	query := s.Converter(`
		SELECT id, assignment_id, student_id, content, grade, status, submitted_at, graded_at
		FROM submissions
		WHERE assignment_id = ?
		ORDER BY submitted_at
	`)

	err := s.DB.Select(&subs, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by assignment: %w", err)
	}
	return subs, nil
}

func (s *BaseStore) ListSubmissionsByCourses(courseIDs []string) ([]models.Submission, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var subs []models.Submission
	err := s.selectIn(&subs, `
		SELECT su.id, su.assignment_id, su.student_id, su.content, su.grade, su.status, su.submitted_at, su.graded_at
		FROM submissions su
		JOIN assignments a ON a.id = su.assignment_id
		WHERE a.course_id IN (?)
		ORDER BY su.submitted_at
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by courses: %w", err)
	}
	return subs, nil
}

func (s *BaseStore) UpdateSubmission(sub *models.Submission) error {
	res, err := s.DB.NamedExec(`
		UPDATE submissions SET
			content = :content,
			grade = :grade,
			status = :status,
			graded_at = :graded_at
		WHERE id = :id
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateGrade(g *models.Grade) error {
	g.ID = newID(g.ID)
	g.CreatedAt = stampNow(g.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO grades (id, student_id, course_id, subject, value, coefficient, term, academic_year, created_at)
		VALUES (:id, :student_id, :course_id, :subject, :value, :coefficient, :term, :academic_year, :created_at)
	`, g)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

func (s *BaseStore) GetGrade(id string) (*models.Grade, error) {
	var g models.Grade
	query := s.Converter(`
		SELECT id, student_id, course_id, subject, value, coefficient, term, academic_year, created_at
		FROM grades
		WHERE id = ?
	`)

	err := s.DB.Get(&g, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return &g, nil
}

func (s *BaseStore) ListGrades() ([]models.Grade, error) {
	var grades []models.Grade
	err := s.DB.Select(&grades, `
		SELECT id, student_id, course_id, subject, value, coefficient, term, academic_year, created_at
		FROM grades
		ORDER BY course_id, student_id, subject
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) ListGradesByStudent(studentID string) ([]models.Grade, error) {
	var grades []models.Grade
	query := s.Converter(`
		SELECT id, student_id, course_id, subject, value, coefficient, term, academic_year, created_at
		FROM grades
		WHERE student_id = ?
		ORDER BY academic_year, term, subject
	`)

	err := s.DB.Select(&grades, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by student: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) ListGradesByCourses(courseIDs []string) ([]models.Grade, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var grades []models.Grade
	err := s.selectIn(&grades, `
		SELECT id, student_id, course_id, subject, value, coefficient, term, academic_year, created_at
		FROM grades
		WHERE course_id IN (?)
		ORDER BY course_id, student_id, subject
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by courses: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) UpdateGrade(g *models.Grade) error {
	res, err := s.DB.NamedExec(`
		UPDATE grades SET
			subject = :subject,
			value = :value,
			coefficient = :coefficient,
			term = :term,
			academic_year = :academic_year
		WHERE id = :id
	`, g)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteGrade(id string) error {
	query := s.Converter(`DELETE FROM grades WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) FetchCourseGradeStats(courseIDs []string) ([]CourseGradeStat, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var stats []CourseGradeStat
	err := s.selectIn(&stats, `
		SELECT
			course_id,
			COUNT(*) as grade_count,
			MIN(value) as min_value,
			MAX(value) as max_value,
			AVG(value) as avg_value
		FROM grades
		WHERE course_id IN (?)
		GROUP BY course_id
		ORDER BY course_id
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course grade stats: %w", err)
	}
	return stats, nil
}
