package store

import (
	"database/sql"
	"fmt"

	"github.com/edusphere/backend/internal/models"
)

func (s *BaseStore) CreateCourse(c *models.Course) error {
	c.ID = newID(c.ID)
	c.CreatedAt = stampNow(c.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO courses (id, title, professor_id, class_level, schedule, active, created_at)
		VALUES (:id, :title, :professor_id, :class_level, :schedule, :active, :created_at)
	`, c)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (s *BaseStore) GetCourse(id string) (*models.Course, error) {
	var c models.Course
	query := s.Converter(`
		SELECT id, title, professor_id, class_level, schedule, active, created_at
		FROM courses
		WHERE id = ?
	`)

	err := s.DB.Get(&c, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

func (s *BaseStore) ListCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.Select(&courses, `
		SELECT id, title, professor_id, class_level, schedule, active, created_at
		FROM courses
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) ListCoursesByProfessor(professorID string) ([]models.Course, error) {
	var courses []models.Course
	query := s.Converter(`
		SELECT id, title, professor_id, class_level, schedule, active, created_at
		FROM courses
		WHERE professor_id = ?
		ORDER BY title
	`)

	err := s.DB.Select(&courses, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by professor: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) ListCoursesByIDs(ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var courses []models.Course
	err := s.selectIn(&courses, `
		SELECT id, title, professor_id, class_level, schedule, active, created_at
		FROM courses
		WHERE id IN (?)
		ORDER BY title
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by ids: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) UpdateCourse(c *models.Course) error {
	res, err := s.DB.NamedExec(`
		UPDATE courses SET
			title = :title,
			professor_id = :professor_id,
			class_level = :class_level,
			schedule = :schedule,
			active = :active
		WHERE id = :id
	`, c)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteCourse(id string) error {
	query := s.Converter(`DELETE FROM courses WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateEnrollment(e *models.Enrollment) error {
	e.ID = newID(e.ID)
	e.CreatedAt = stampNow(e.CreatedAt)
	if e.Status == "" {
		e.Status = models.EnrollmentActive
	}
	_, err := s.DB.NamedExec(`
		INSERT INTO enrollments (id, student_id, course_id, status, created_at)
		VALUES (:id, :student_id, :course_id, :status, :created_at)
	`, e)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (s *BaseStore) GetEnrollment(id string) (*models.Enrollment, error) {
	var e models.Enrollment
	query := s.Converter(`
		SELECT id, student_id, course_id, status, created_at
		FROM enrollments
		WHERE id = ?
	`)

	err := s.DB.Get(&e, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (s *BaseStore) ListEnrollments() ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.DB.Select(&enrollments, `
		SELECT id, student_id, course_id, status, created_at
		FROM enrollments
		ORDER BY course_id, student_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *BaseStore) ListEnrollmentsByStudent(studentID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	query := s.Converter(`
		SELECT id, student_id, course_id, status, created_at
		FROM enrollments
		WHERE student_id = ?
		ORDER BY course_id
	`)

	err := s.DB.Select(&enrollments, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by student: %w", err)
	}
	return enrollments, nil
}

func (s *BaseStore) ListEnrollmentsByCourses(courseIDs []string) ([]models.Enrollment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var enrollments []models.Enrollment
	err := s.selectIn(&enrollments, `
		SELECT id, student_id, course_id, status, created_at
		FROM enrollments
		WHERE course_id IN (?)
		ORDER BY course_id, student_id
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by courses: %w", err)
	}
	return enrollments, nil
}

func (s *BaseStore) UpdateEnrollment(e *models.Enrollment) error {
	res, err := s.DB.NamedExec(`
		UPDATE enrollments SET
			student_id = :student_id,
			course_id = :course_id,
			status = :status
		WHERE id = :id
	`, e)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteEnrollment(id string) error {
	query := s.Converter(`DELETE FROM enrollments WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
