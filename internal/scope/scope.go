// Package scope implements the role-based data-scoping contract: which
// records an actor may list, and which documents an actor may mutate.
//
// Every "list X for role Y" operation is a two-step join: fetch the
// linking collection filtered by the actor's id, derive the foreign-key
// set, then fetch the target collection filtered by that set. The store
// runs both steps as indexed queries; the output is identical to a
// full-scan-and-filter over the same data.
package scope

import (
	"errors"
	"fmt"

	"github.com/edusphere/backend/internal/models"
)

var (
	// ErrMissingActor means the request carried no actor id. Callers
	// must surface this as a bad request, never as an empty result.
	ErrMissingActor = errors.New("missing actor id")
	ErrUnknownRole  = errors.New("unknown role")
	ErrForbidden    = errors.New("forbidden")
)

// Actor is the identity a request acts as.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) check() error {
	if a.ID == "" {
		return ErrMissingActor
	}
	if !a.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, a.Role)
	}
	return nil
}

// Store is the slice of the entity store scoping needs.
type Store interface {
	GetCourse(id string) (*models.Course, error)
	ListCourses() ([]models.Course, error)
	ListCoursesByProfessor(professorID string) ([]models.Course, error)
	ListCoursesByIDs(ids []string) ([]models.Course, error)

	ListEnrollments() ([]models.Enrollment, error)
	ListEnrollmentsByStudent(studentID string) ([]models.Enrollment, error)
	ListEnrollmentsByCourses(courseIDs []string) ([]models.Enrollment, error)

	GetAssignment(id string) (*models.Assignment, error)
	ListAssignments() ([]models.Assignment, error)
	ListAssignmentsByCourses(courseIDs []string) ([]models.Assignment, error)

	ListSubmissions() ([]models.Submission, error)
	ListSubmissionsByStudent(studentID string) ([]models.Submission, error)
	ListSubmissionsByCourses(courseIDs []string) ([]models.Submission, error)

	ListGrades() ([]models.Grade, error)
	ListGradesByCourses(courseIDs []string) ([]models.Grade, error)
}

type Scoper struct {
	store Store
}

func NewScoper(store Store) *Scoper {
	return &Scoper{store: store}
}

// CourseIDs derives the course ids the actor is linked to: owned
// courses for a professor, enrolled courses for a student. An empty
// set is a valid outcome, not an error. Admins have no key set; their
// listings are unrestricted and never call this.
func (s *Scoper) CourseIDs(actor Actor) ([]string, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleProfessor:
		courses, err := s.store.ListCoursesByProfessor(actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list owned courses: %w", err)
		}
		ids := make([]string, 0, len(courses))
		for _, c := range courses {
			ids = append(ids, c.ID)
		}
		return ids, nil
	case models.RoleStudent:
		enrollments, err := s.store.ListEnrollmentsByStudent(actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list enrollments: %w", err)
		}
		// Dangling course references stay in the key set; they join
		// to nothing downstream.
		ids := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			ids = append(ids, e.CourseID)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
	}
}

// Courses returns the courses the actor may see.
func (s *Scoper) Courses(actor Actor) ([]models.Course, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return s.store.ListCourses()
	case models.RoleProfessor:
		return s.store.ListCoursesByProfessor(actor.ID)
	case models.RoleStudent:
		ids, err := s.CourseIDs(actor)
		if err != nil {
			return nil, err
		}
		return s.store.ListCoursesByIDs(ids)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
	}
}

// Enrollments returns the enrollments visible to the actor: all for
// admin, those of owned courses for a professor, own rows for a student.
func (s *Scoper) Enrollments(actor Actor) ([]models.Enrollment, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return s.store.ListEnrollments()
	case models.RoleProfessor:
		ids, err := s.CourseIDs(actor)
		if err != nil {
			return nil, err
		}
		return s.store.ListEnrollmentsByCourses(ids)
	case models.RoleStudent:
		return s.store.ListEnrollmentsByStudent(actor.ID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
	}
}

// Assignments returns assignments in the actor's course set.
func (s *Scoper) Assignments(actor Actor) ([]models.Assignment, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	if actor.Role == models.RoleAdmin {
		return s.store.ListAssignments()
	}
	ids, err := s.CourseIDs(actor)
	if err != nil {
		return nil, err
	}
	return s.store.ListAssignmentsByCourses(ids)
}

// Grades returns the grade documents in the actor's course set. Like
// Assignments, the set is keyed by course id for both professors and
// students: a student sees the grade documents of enrolled courses,
// which is not the same thing as their own grades (those may include
// courses they are no longer linked to).
func (s *Scoper) Grades(actor Actor) ([]models.Grade, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	if actor.Role == models.RoleAdmin {
		return s.store.ListGrades()
	}
	ids, err := s.CourseIDs(actor)
	if err != nil {
		return nil, err
	}
	return s.store.ListGradesByCourses(ids)
}

// Submissions returns the submissions visible to the actor.
func (s *Scoper) Submissions(actor Actor) ([]models.Submission, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return s.store.ListSubmissions()
	case models.RoleProfessor:
		ids, err := s.CourseIDs(actor)
		if err != nil {
			return nil, err
		}
		return s.store.ListSubmissionsByCourses(ids)
	case models.RoleStudent:
		return s.store.ListSubmissionsByStudent(actor.ID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
	}
}

// CanMutateCourse reports whether the actor may write the given course
// document. Professors manage their own courses.
func (s *Scoper) CanMutateCourse(actor Actor, course *models.Course) bool {
	if course == nil {
		return false
	}
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleProfessor:
		return course.ProfessorID == actor.ID
	default:
		return false
	}
}

// AuthorizeCourseWrite resolves the course and distinguishes "it does
// not exist" (nil course, nil error) from "you cannot touch it"
// (ErrForbidden).
func (s *Scoper) AuthorizeCourseWrite(actor Actor, courseID string) (*models.Course, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	course, err := s.store.GetCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve course for authorization: %w", err)
	}
	if course == nil {
		return nil, nil
	}
	if !s.CanMutateCourse(actor, course) {
		return nil, ErrForbidden
	}
	return course, nil
}

// AuthorizeSubmissionGrading checks the actor may grade a submission by
// walking submission -> assignment -> course ownership.
func (s *Scoper) AuthorizeSubmissionGrading(actor Actor, sub *models.Submission) error {
	if err := actor.check(); err != nil {
		return err
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleProfessor {
		return ErrForbidden
	}

	assignment, err := s.store.GetAssignment(sub.AssignmentID)
	if err != nil {
		return fmt.Errorf("failed to resolve assignment for authorization: %w", err)
	}
	if assignment == nil {
		return ErrForbidden
	}
	course, err := s.store.GetCourse(assignment.CourseID)
	if err != nil {
		return fmt.Errorf("failed to resolve course for authorization: %w", err)
	}
	if course == nil || course.ProfessorID != actor.ID {
		return ErrForbidden
	}
	return nil
}

// CanReadNotification limits notification access to the owner or admin.
func (s *Scoper) CanReadNotification(actor Actor, n *models.Notification) bool {
	if n == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || n.AccountID == actor.ID
}
