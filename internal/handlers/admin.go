package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/metrics"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/reports"
)

func (h *Handler) adminActor(w http.ResponseWriter, r *http.Request) bool {
	_, ok := h.actorFromQuery(w, r, "adminId", "admin")
	return ok
}

// HandleAdminListAccounts lists every account, optionally filtered by
// role.
func (h *Handler) HandleAdminListAccounts(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var (
		accounts []models.Account
		err      error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		if !models.Role(role).Valid() {
			writeError(w, http.StatusBadRequest, "unknown role")
			return
		}
		accounts, err = h.service.Store.ListAccountsByRole(models.Role(role))
	} else {
		accounts, err = h.service.Store.ListAccounts()
	}
	if err != nil {
		logger.Error.Printf("Failed to list accounts: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(accounts)})
}

type accountRequest struct {
	models.Account
	Password string `json:"password"`
}

// HandleAdminCreateAccount creates any account, hashing the supplied
// password.
func (h *Handler) HandleAdminCreateAccount(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var req accountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := req.Account.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := app.SetPassword(&req.Account, req.Password); err != nil {
		logger.Error.Printf("Failed to hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.service.Store.CreateAccount(&req.Account); err != nil {
		logger.Error.Printf("Failed to create account: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("accounts", "create").Inc()
	writeJSON(w, http.StatusCreated, req.Account)
}

// HandleAdminGetAccount fetches one account by id.
func (h *Handler) HandleAdminGetAccount(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	account, err := h.service.Store.GetAccount(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get account: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// HandleAdminUpdateAccount updates account fields; role changes are an
// admin-only action and this is the only endpoint that allows them. An
// empty password keeps the existing hash.
func (h *Handler) HandleAdminUpdateAccount(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	existing, err := h.service.Store.GetAccount(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get account: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	var req accountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Account.ID = existing.ID
	req.Account.PasswordHash = existing.PasswordHash
	if req.Password != "" {
		if err := app.SetPassword(&req.Account, req.Password); err != nil {
			logger.Error.Printf("Failed to hash password: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
	}
	if err := req.Account.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateAccount(&req.Account); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("accounts", "update").Inc()
	writeJSON(w, http.StatusOK, req.Account)
}

// HandleAdminDeleteAccount hard-deletes an account. References held by
// other collections are tolerated as dangling.
func (h *Handler) HandleAdminDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteAccount(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("accounts", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminListCourses lists every course.
func (h *Handler) HandleAdminListCourses(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	courses, err := h.service.Store.ListCourses()
	if err != nil {
		logger.Error.Printf("Failed to list courses: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(courses)})
}

// HandleAdminCreateCourse creates a course for any professor.
func (h *Handler) HandleAdminCreateCourse(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var course models.Course
	if !decodeBody(w, r, &course) {
		return
	}
	if err := course.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
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

// HandleAdminUpdateCourse updates any course, including reassigning it
// to another professor.
func (h *Handler) HandleAdminUpdateCourse(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	existing, err := h.service.Store.GetCourse(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get course: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
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
	if course.ProfessorID == "" {
		course.ProfessorID = existing.ProfessorID
	}
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

// HandleAdminDeleteCourse deletes any course.
func (h *Handler) HandleAdminDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteCourse(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("courses", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminListEnrollments lists every enrollment.
func (h *Handler) HandleAdminListEnrollments(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	enrollments, err := h.service.Store.ListEnrollments()
	if err != nil {
		logger.Error.Printf("Failed to list enrollments: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(enrollments)})
}

// HandleAdminCreateEnrollment links a student to a course. The student
// and course must both exist and the account must have the student
// role.
func (h *Handler) HandleAdminCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var enrollment models.Enrollment
	if !decodeBody(w, r, &enrollment) {
		return
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}
	if err := enrollment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := h.service.Store.GetAccount(enrollment.StudentID)
	if err != nil {
		logger.Error.Printf("Failed to resolve student: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if student == nil || student.Role != models.RoleStudent {
		writeError(w, http.StatusBadRequest, "student reference is not a student account")
		return
	}
	course, err := h.service.Store.GetCourse(enrollment.CourseID)
	if err != nil {
		logger.Error.Printf("Failed to resolve course: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	if err := h.service.Store.CreateEnrollment(&enrollment); err != nil {
		logger.Error.Printf("Failed to create enrollment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("enrollments", "create").Inc()
	writeJSON(w, http.StatusCreated, enrollment)
}

// HandleAdminUpdateEnrollment updates an enrollment, typically its
// status.
func (h *Handler) HandleAdminUpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	existing, err := h.service.Store.GetEnrollment(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get enrollment: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "enrollment not found")
		return
	}

	var enrollment models.Enrollment
	if !decodeBody(w, r, &enrollment) {
		return
	}
	enrollment.ID = existing.ID
	if enrollment.StudentID == "" {
		enrollment.StudentID = existing.StudentID
	}
	if enrollment.CourseID == "" {
		enrollment.CourseID = existing.CourseID
	}
	if err := enrollment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateEnrollment(&enrollment); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("enrollments", "update").Inc()
	writeJSON(w, http.StatusOK, enrollment)
}

// HandleAdminDeleteEnrollment removes an enrollment.
func (h *Handler) HandleAdminDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteEnrollment(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("enrollments", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminListGrades lists every grade document.
func (h *Handler) HandleAdminListGrades(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	grades, err := h.service.Store.ListGrades()
	if err != nil {
		logger.Error.Printf("Failed to list grades: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(grades)})
}

// HandleAdminUpdateGrade corrects a grade document.
func (h *Handler) HandleAdminUpdateGrade(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	existing, err := h.service.Store.GetGrade(r.PathValue("id"))
	if err != nil {
		logger.Error.Printf("Failed to get grade: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "grade not found")
		return
	}

	var grade models.Grade
	if !decodeBody(w, r, &grade) {
		return
	}
	grade.ID = existing.ID
	if grade.StudentID == "" {
		grade.StudentID = existing.StudentID
	}
	if grade.CourseID == "" {
		grade.CourseID = existing.CourseID
	}
	if grade.AcademicYear == "" {
		grade.AcademicYear = existing.AcademicYear
	}
	if err := grade.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.UpdateGrade(&grade); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("grades", "update").Inc()
	writeJSON(w, http.StatusOK, grade)
}

// HandleAdminDeleteGrade removes a grade document.
func (h *Handler) HandleAdminDeleteGrade(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteGrade(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("grades", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminCreateEvent adds a calendar event.
func (h *Handler) HandleAdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var event models.Event
	if !decodeBody(w, r, &event) {
		return
	}
	if err := event.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.CreateEvent(&event); err != nil {
		logger.Error.Printf("Failed to create event: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("events", "create").Inc()
	writeJSON(w, http.StatusCreated, event)
}

// HandleAdminDeleteEvent removes a calendar event.
func (h *Handler) HandleAdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteEvent(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("events", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminCreateAnnouncement publishes an announcement to a role or
// to everyone.
func (h *Handler) HandleAdminCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var announcement models.Announcement
	if !decodeBody(w, r, &announcement) {
		return
	}
	if err := announcement.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.CreateAnnouncement(&announcement); err != nil {
		logger.Error.Printf("Failed to create announcement: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("announcements", "create").Inc()
	writeJSON(w, http.StatusCreated, announcement)
}

// HandleAdminDeleteAnnouncement removes an announcement.
func (h *Handler) HandleAdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteAnnouncement(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("announcements", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminCreateNotification sends a notification to one account.
func (h *Handler) HandleAdminCreateNotification(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	var notification models.Notification
	if !decodeBody(w, r, &notification) {
		return
	}
	notification.Read = false
	if err := notification.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.CreateNotification(&notification); err != nil {
		logger.Error.Printf("Failed to create notification: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("notifications", "create").Inc()
	writeJSON(w, http.StatusCreated, notification)
}

// HandleAdminDeleteNotification removes a notification.
func (h *Handler) HandleAdminDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	if err := h.service.Store.DeleteNotification(r.PathValue("id")); err != nil {
		writeStoreMutationError(w, err)
		return
	}
	metrics.MutationsTotal.WithLabelValues("notifications", "delete").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAdminClassBuckets reports student counts per class level, with
// missing levels under the "unknown" bucket.
func (h *Handler) HandleAdminClassBuckets(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	students, err := h.service.Store.ListAccountsByRole(models.RoleStudent)
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"buckets": reports.GroupStudentsByClass(students),
	})
}

// HandleAdminFeeReport reports fee-status buckets and the scholarship
// count.
func (h *Handler) HandleAdminFeeReport(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	students, err := h.service.Store.ListAccountsByRole(models.RoleStudent)
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fee_buckets":  reports.FeeStatusBuckets(students),
		"scholarships": reports.ScholarshipCount(students),
	})
}

// HandleAdminGradeStats reports min/max/avg grade per course, straight
// from the store aggregate.
func (h *Handler) HandleAdminGradeStats(w http.ResponseWriter, r *http.Request) {
	if !h.adminActor(w, r) {
		return
	}

	courses, err := h.service.Store.ListCourses()
	if err != nil {
		logger.Error.Printf("Failed to list courses: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	stats, err := h.service.Store.FetchCourseGradeStats(ids)
	if err != nil {
		logger.Error.Printf("Failed to fetch grade stats: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": orEmpty(stats)})
}
