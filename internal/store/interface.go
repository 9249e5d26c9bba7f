package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusphere/backend/internal/models"
)

// EntityStore is the flat persistence surface: one set of CRUD and
// indexed-list operations per collection. List* methods taking an id
// slice are the indexed replacement for full-scan joins; they must
// return exactly the rows whose foreign key is in the given set.
type EntityStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateAccount(a *models.Account) error
	GetAccount(id string) (*models.Account, error)
	GetAccountByEmail(email string) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
	ListAccountsByRole(role models.Role) ([]models.Account, error)
	UpdateAccount(a *models.Account) error
	DeleteAccount(id string) error

	CreateCourse(c *models.Course) error
	GetCourse(id string) (*models.Course, error)
	ListCourses() ([]models.Course, error)
	ListCoursesByProfessor(professorID string) ([]models.Course, error)
	ListCoursesByIDs(ids []string) ([]models.Course, error)
	UpdateCourse(c *models.Course) error
	DeleteCourse(id string) error

	CreateEnrollment(e *models.Enrollment) error
	GetEnrollment(id string) (*models.Enrollment, error)
	ListEnrollments() ([]models.Enrollment, error)
	ListEnrollmentsByStudent(studentID string) ([]models.Enrollment, error)
	ListEnrollmentsByCourses(courseIDs []string) ([]models.Enrollment, error)
	UpdateEnrollment(e *models.Enrollment) error
	DeleteEnrollment(id string) error

	CreateAssignment(a *models.Assignment) error
	GetAssignment(id string) (*models.Assignment, error)
	ListAssignments() ([]models.Assignment, error)
	ListAssignmentsByCourses(courseIDs []string) ([]models.Assignment, error)
	ListAssignmentsDueBetween(from, to int64) ([]models.Assignment, error)
	UpdateAssignment(a *models.Assignment) error
	DeleteAssignment(id string) error

	CreateSubmission(s *models.Submission) error
	GetSubmission(id string) (*models.Submission, error)
	ListSubmissions() ([]models.Submission, error)
	ListSubmissionsByStudent(studentID string) ([]models.Submission, error)
	ListSubmissionsByAssignment(assignmentID string) ([]models.Submission, error)
	ListSubmissionsByCourses(courseIDs []string) ([]models.Submission, error)
	UpdateSubmission(s *models.Submission) error

	CreateGrade(g *models.Grade) error
	GetGrade(id string) (*models.Grade, error)
	ListGrades() ([]models.Grade, error)
	ListGradesByStudent(studentID string) ([]models.Grade, error)
	ListGradesByCourses(courseIDs []string) ([]models.Grade, error)
	UpdateGrade(g *models.Grade) error
	DeleteGrade(id string) error
	FetchCourseGradeStats(courseIDs []string) ([]CourseGradeStat, error)

	CreateEvent(e *models.Event) error
	GetEvent(id string) (*models.Event, error)
	ListEvents() ([]models.Event, error)
	DeleteEvent(id string) error

	CreateAnnouncement(a *models.Announcement) error
	ListAnnouncementsForAudience(audience string) ([]models.Announcement, error)
	DeleteAnnouncement(id string) error

	CreateNotification(n *models.Notification) error
	GetNotification(id string) (*models.Notification, error)
	ListNotificationsByAccount(accountID string) ([]models.Notification, error)
	MarkNotificationRead(id string) (*models.Notification, error)
	DeleteNotification(id string) error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// selectIn runs a query whose single IN clause is expanded from a slice
// argument. Rebind handles the dialect placeholders.
func (s *BaseStore) selectIn(dest interface{}, query string, args ...interface{}) error {
	q, params, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("failed to expand IN clause: %w", err)
	}
	return s.DB.Select(dest, s.DB.Rebind(q), params...)
}

// newID assigns a fresh identifier unless the caller already set one.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func stampNow(ts int64) int64 {
	if ts != 0 {
		return ts
	}
	return time.Now().UTC().Unix()
}
