package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/metrics"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/reports"
)

// HandleStudentCourses lists the courses a student is enrolled in. A
// student with zero enrollments gets an empty list, not an error.
func (h *Handler) HandleStudentCourses(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "studentId", "student")
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

// HandleStudentAssignments lists assignments across the student's
// enrolled courses, with a pending/completed summary.
func (h *Handler) HandleStudentAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "studentId", "student")
	if !ok {
		return
	}

	assignments, err := h.service.Scope.Assignments(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	subs, err := h.service.Scope.Submissions(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":     orEmpty(assignments),
		"progress": reports.AssignmentProgressFor(actor.ID, assignments, subs),
	})
}

// HandleStudentGrades lists the grade documents of the student's
// enrolled courses, with the student's personal plain and
// coefficient-weighted averages. Averages are null when there are no
// grades.
func (h *Handler) HandleStudentGrades(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "studentId", "student")
	if !ok {
		return
	}

	grades, err := h.service.Scope.Grades(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	// The personal averages aggregate per student, not per course set.
	own, err := h.service.Store.ListGradesByStudent(actor.ID)
	if err != nil {
		logger.Error.Printf("Failed to list own grades: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":             orEmpty(grades),
		"average":          reports.Average(own),
		"weighted_average": reports.WeightedAverage(own),
	})
}

// HandleStudentSubmissions lists the student's own submissions.
func (h *Handler) HandleStudentSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "studentId", "student")
	if !ok {
		return
	}

	subs, err := h.service.Scope.Submissions(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(subs)})
}

// HandleCreateSubmission records a student's submission after checking
// the assignment exists and the student is enrolled in its course.
func (h *Handler) HandleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if !decodeBody(w, r, &sub) {
		return
	}
	sub.Status = models.SubmissionSubmitted
	sub.Grade = nil
	sub.GradedAt = nil
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, ok := h.actorFromQuery(w, r, "studentId", "student")
	if !ok {
		return
	}
	if sub.StudentID != actor.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	assignment, err := h.service.Store.GetAssignment(sub.AssignmentID)
	if err != nil {
		logger.Error.Printf("Failed to resolve assignment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if assignment == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	courseIDs, err := h.service.Scope.CourseIDs(actor)
	if err != nil {
		writeScopeError(w, err)
		return
	}
	enrolled := false
	for _, id := range courseIDs {
		if id == assignment.CourseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		writeError(w, http.StatusForbidden, "not enrolled in this course")
		return
	}

	if err := h.service.Store.CreateSubmission(&sub); err != nil {
		logger.Error.Printf("Failed to create submission: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}

	metrics.MutationsTotal.WithLabelValues("submissions", "create").Inc()
	writeJSON(w, http.StatusCreated, sub)
}

// HandleNotifications lists the actor's own notifications; the role
// comes from the path so one handler serves all three dashboards.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "accountId", r.PathValue("role"))
	if !ok {
		return
	}

	notifications, err := h.service.Store.ListNotificationsByAccount(actor.ID)
	if err != nil {
		logger.Error.Printf("Failed to list notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(notifications)})
}

// HandleMarkNotificationRead flips the read flag on one of the actor's
// own notifications.
func (h *Handler) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromQuery(w, r, "accountId", r.PathValue("role"))
	if !ok {
		return
	}

	id := r.PathValue("id")
	notification, err := h.service.Store.GetNotification(id)
	if err != nil {
		logger.Error.Printf("Failed to get notification: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if notification == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !h.service.Scope.CanReadNotification(actor, notification) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	updated, err := h.service.Store.MarkNotificationRead(id)
	if err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("notifications", "update").Inc()
	writeJSON(w, http.StatusOK, updated)
}

// HandleAnnouncements lists announcements targeted at the role in the
// path, plus the "all" audience.
func (h *Handler) HandleAnnouncements(w http.ResponseWriter, r *http.Request) {
	role := roleFromLabel(r.PathValue("role"))
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	announcements, err := h.service.Store.ListAnnouncementsForAudience(string(role))
	if err != nil {
		logger.Error.Printf("Failed to list announcements: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(announcements)})
}

// HandleEvents lists calendar events.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Store.ListEvents()
	if err != nil {
		logger.Error.Printf("Failed to list events: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(events)})
}

// HandleGetEvent fetches one calendar event.
func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Store.GetEvent(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get event: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
