package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/handlers"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	h := handlers.NewHandler(service)

	handle := func(pattern string, fn http.HandlerFunc) {
		http.HandleFunc(pattern, handlers.Observe(pattern, fn))
	}

	handle("POST /api/auth/register", h.HandleRegister)
	handle("POST /api/auth/login", h.HandleLogin)
	handle("POST /api/auth/logout", h.HandleLogout)
	handle("GET /api/auth/whoami", h.HandleWhoAmI)

	handle("GET /api/student/courses", h.HandleStudentCourses)
	handle("GET /api/student/assignments", h.HandleStudentAssignments)
	handle("GET /api/student/grades", h.HandleStudentGrades)
	handle("GET /api/student/submissions", h.HandleStudentSubmissions)
	handle("POST /api/student/submissions", h.HandleCreateSubmission)

	handle("GET /api/professor/courses", h.HandleProfessorCourses)
	handle("POST /api/professor/courses", h.HandleCreateCourse)
	handle("PUT /api/professor/courses/{id}", h.HandleUpdateCourse)
	handle("DELETE /api/professor/courses/{id}", h.HandleDeleteCourse)
	handle("GET /api/professor/assignments", h.HandleProfessorAssignments)
	handle("POST /api/professor/assignments", h.HandleCreateAssignment)
	handle("PUT /api/professor/assignments/{id}", h.HandleUpdateAssignment)
	handle("DELETE /api/professor/assignments/{id}", h.HandleDeleteAssignment)
	handle("GET /api/professor/submissions", h.HandleProfessorSubmissions)
	handle("POST /api/professor/submissions/{id}/grade", h.HandleGradeSubmission)
	handle("GET /api/professor/grades", h.HandleProfessorGrades)
	handle("POST /api/professor/grades", h.HandleCreateGrade)
	handle("GET /api/professor/enrollments", h.HandleProfessorEnrollments)

	handle("GET /api/admin/accounts", h.HandleAdminListAccounts)
	handle("POST /api/admin/accounts", h.HandleAdminCreateAccount)
	handle("GET /api/admin/accounts/{id}", h.HandleAdminGetAccount)
	handle("PUT /api/admin/accounts/{id}", h.HandleAdminUpdateAccount)
	handle("DELETE /api/admin/accounts/{id}", h.HandleAdminDeleteAccount)
	handle("GET /api/admin/courses", h.HandleAdminListCourses)
	handle("POST /api/admin/courses", h.HandleAdminCreateCourse)
	handle("PUT /api/admin/courses/{id}", h.HandleAdminUpdateCourse)
	handle("DELETE /api/admin/courses/{id}", h.HandleAdminDeleteCourse)
	handle("GET /api/admin/enrollments", h.HandleAdminListEnrollments)
	handle("POST /api/admin/enrollments", h.HandleAdminCreateEnrollment)
	handle("PUT /api/admin/enrollments/{id}", h.HandleAdminUpdateEnrollment)
	handle("DELETE /api/admin/enrollments/{id}", h.HandleAdminDeleteEnrollment)
	handle("GET /api/admin/grades", h.HandleAdminListGrades)
	handle("PUT /api/admin/grades/{id}", h.HandleAdminUpdateGrade)
	handle("DELETE /api/admin/grades/{id}", h.HandleAdminDeleteGrade)
	handle("POST /api/admin/events", h.HandleAdminCreateEvent)
	handle("DELETE /api/admin/events/{id}", h.HandleAdminDeleteEvent)
	handle("POST /api/admin/announcements", h.HandleAdminCreateAnnouncement)
	handle("DELETE /api/admin/announcements/{id}", h.HandleAdminDeleteAnnouncement)
	handle("POST /api/admin/notifications", h.HandleAdminCreateNotification)
	handle("DELETE /api/admin/notifications/{id}", h.HandleAdminDeleteNotification)
	handle("GET /api/admin/reports/classes", h.HandleAdminClassBuckets)
	handle("GET /api/admin/reports/fees", h.HandleAdminFeeReport)
	handle("GET /api/admin/reports/grades", h.HandleAdminGradeStats)

	handle("GET /api/{role}/notifications", h.HandleNotifications)
	handle("POST /api/{role}/notifications/{id}/read", h.HandleMarkNotificationRead)
	handle("GET /api/{role}/announcements", h.HandleAnnouncements)
	handle("GET /api/{role}/events", h.HandleEvents)
	handle("GET /api/{role}/events/{id}", h.HandleGetEvent)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting edusphere server on %s", service.Config.Server.Port)
	if !service.Sessions.Enabled() {
		logger.Info.Println("Session auth is disabled, trusting owner-key parameters")
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Edusphere server failed: %v", err)
	}
}
