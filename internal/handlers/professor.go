package handlers

import (
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/metrics"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/reports"
)

// HandleProfessorCourses lists the courses owned by the professor.
// Owning zero courses is an empty list, not an error.
func (h *Handler) HandleProfessorCourses(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	courses, err := h.service.Scope.Courses(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(courses)})
}

// HandleCreateCourse creates a course owned by the requesting
// professor.
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if !decodeBody(w, r, &course) {
		return
	}
	if err := course.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}
	if course.ProfessorID != actor.ID {
		writeError(w, http.StatusForbidden, "cannot create a course for another professor")
		return
	}

	if err := h.service.Store.CreateCourse(&course); err != nil {
		logger.Error.Printf("Failed to create course: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}

	metrics.MutationsTotal.WithLabelValues("courses", "create").Inc()
	writeJSON(w, http.StatusCreated, course)
}

// HandleUpdateCourse updates a course the professor owns.
func (h *Handler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	existing, err := h.service.Scope.AuthorizeCourseWrite(actor, r.PathValue("id"))
	if err != nil {
		writeScopeError(w, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	var course models.Course
	if !decodeBody(w, r, &course) {
		return
	}
	course.ID = existing.ID
	course.ProfessorID = existing.ProfessorID
	if err := course.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateCourse(&course); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("courses", "update").Inc()
	writeJSON(w, http.StatusOK, course)
}

// HandleDeleteCourse deletes a course the professor owns. Dependent
// records are left in place; dangling references join to nothing.
func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	existing, err := h.service.Scope.AuthorizeCourseWrite(actor, r.PathValue("id"))
	if err != nil {
		writeScopeError(w, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	if err := h.service.Store.DeleteCourse(existing.ID); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("courses", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleProfessorAssignments lists assignments across owned courses.
func (h *Handler) HandleProfessorAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	assignments, err := h.service.Scope.Assignments(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(assignments)})
}

// HandleCreateAssignment creates an assignment in an owned course.
func (h *Handler) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var assignment models.Assignment
	if !decodeBody(w, r, &assignment) {
		return
	}
	if err := assignment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	course, err := h.service.Scope.AuthorizeCourseWrite(actor, assignment.CourseID)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	if err := h.service.Store.CreateAssignment(&assignment); err != nil {
		logger.Error.Printf("Failed to create assignment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("assignments", "create").Inc()
	writeJSON(w, http.StatusCreated, assignment)
}

// HandleUpdateAssignment updates an assignment in an owned course.
func (h *Handler) HandleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	existing, err := h.service.Store.GetAssignment(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get assignment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	course, err := h.service.Scope.AuthorizeCourseWrite(actor, existing.CourseID)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	var assignment models.Assignment
	if !decodeBody(w, r, &assignment) {
		return
	}
	assignment.ID = existing.ID
	assignment.CourseID = existing.CourseID
	if err := assignment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateAssignment(&assignment); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("assignments", "update").Inc()
	writeJSON(w, http.StatusOK, assignment)
}

// HandleDeleteAssignment deletes an assignment in an owned course.
func (h *Handler) HandleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	existing, err := h.service.Store.GetAssignment(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get assignment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	if _, err := h.service.Scope.AuthorizeCourseWrite(actor, existing.CourseID); err != nil {
		writeScopeError(w, err)
		return
	}

	if err := h.service.Store.DeleteAssignment(existing.ID); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("assignments", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleProfessorSubmissions lists submissions across owned courses
// with a per-status breakdown.
func (h *Handler) HandleProfessorSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	subs, err := h.service.Scope.Submissions(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          orEmpty(subs),
		"status_counts": reports.SubmissionStatusCounts(subs),
	})
}

type gradeSubmissionRequest struct {
	Grade  float64 `json:"grade"`
	Status string  `json:"status"`
}

// HandleGradeSubmission records a grade on a submission in an owned
// course. Status may be "graded" or "returned"; default is graded.
func (h *Handler) HandleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	sub, err := h.service.Store.GetSubmission(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get submission: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	if err := h.service.Scope.AuthorizeSubmissionGrading(actor, sub); err != nil {
		writeScopeError(w, err)
		return
	}

	var req gradeSubmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status := models.SubmissionStatus(req.Status)
	if status == "" {
		status = models.SubmissionGraded
	}
	if status != models.SubmissionGraded && status != models.SubmissionReturned {
		writeError(w, http.StatusBadRequest, "status must be graded or returned")
		return
	}

	now := time.Now().UTC().Unix()
	sub.Grade = &req.Grade
	sub.Status = status
	sub.GradedAt = &now
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateSubmission(sub); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("submissions", "grade").Inc()
	writeJSON(w, http.StatusOK, sub)
}

// HandleProfessorGrades lists grade documents across owned courses with
// the class average.
func (h *Handler) HandleProfessorGrades(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	grades, err := h.service.Scope.Grades(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          orEmpty(grades),
		"class_average": reports.Average(grades),
	})
}

// HandleCreateGrade records a term grade for a student in an owned
// course.
func (h *Handler) HandleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var grade models.Grade
	if !decodeBody(w, r, &grade) {
		return
	}
	if grade.AcademicYear == "" {
		grade.AcademicYear = h.service.Config.School.AcademicYear
	}
	if err := grade.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	course, err := h.service.Scope.AuthorizeCourseWrite(actor, grade.CourseID)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	if err := h.service.Store.CreateGrade(&grade); err != nil {
		logger.Error.Printf("Failed to create grade: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}

	metrics.MutationsTotal.WithLabelValues("grades", "create").Inc()
	metrics.GradeValueHistogram.WithLabelValues(grade.CourseID).Observe(grade.Value)
	writeJSON(w, http.StatusCreated, grade)
}

// HandleProfessorEnrollments lists enrollments across owned courses
// with a per-status breakdown.
func (h *Handler) HandleProfessorEnrollments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "professorId", "professor")
	if !ok {
		return
	}

	enrollments, err := h.service.Scope.Enrollments(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          orEmpty(enrollments),
		"status_counts": reports.EnrollmentStatusCounts(enrollments),
	})
}
