package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/scope"
	"github.com/edusphere/backend/internal/store/sqlite"
)

// testEnv wires a handler against an in-memory SQLite store with
// sessions disabled, so owner-key parameters are trusted as-is.
type testEnv struct {
	handler *Handler
	service *app.Service
}

func setupEnv(t *testing.T) *testEnv {
	st, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations("../../migrations"))
	t.Cleanup(func() { st.Close() })

	config := &app.Config{}
	config.Server.Port = ":0"
	config.School.AcademicYear = "2025-2026"

	sessions, err := app.NewSessions(config)
	require.NoError(t, err)

	service := &app.Service{
		Config:   config,
		Store:    st,
		Sessions: sessions,
		Scope:    scope.NewScoper(st),
	}
	return &testEnv{handler: NewHandler(service), service: service}
}

func (e *testEnv) createStudent(t *testing.T, email string) *models.Account {
	account := &models.Account{Email: email, Name: "Student " + email, Role: models.RoleStudent}
	require.NoError(t, app.SetPassword(account, "hunter2"))
	require.NoError(t, e.service.Store.CreateAccount(account))
	return account
}

func (e *testEnv) createProfessor(t *testing.T, email string) *models.Account {
	account := &models.Account{Email: email, Name: "Prof " + email, Role: models.RoleProfessor}
	require.NoError(t, app.SetPassword(account, "hunter2"))
	require.NoError(t, e.service.Store.CreateAccount(account))
	return account
}

func (e *testEnv) createCourse(t *testing.T, professorID, title string) *models.Course {
	course := &models.Course{Title: title, ProfessorID: professorID, Active: true}
	require.NoError(t, e.service.Store.CreateCourse(course))
	return course
}

func (e *testEnv) enroll(t *testing.T, studentID, courseID string) {
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	require.NoError(t, e.service.Store.CreateEnrollment(enrollment))
}

func doJSON(handler http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeRows(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	var payload struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	return payload.Rows
}

func TestStudentCoursesEndpoint(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	professor := env.createProfessor(t, "p1@example.ma")
	mine := env.createCourse(t, professor.ID, "Math")
	env.createCourse(t, professor.ID, "Physics")
	env.enroll(t, student.ID, mine.ID)

	t.Run("only enrolled courses come back", func(t *testing.T) {
		rec := doJSON(env.handler.HandleStudentCourses, http.MethodGet, "/api/student/courses?studentId="+student.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decodeRows(t, rec)
		require.Len(t, rows, 1)
		assert.Equal(t, "Math", rows[0]["title"])
	})

	t.Run("missing studentId is a bad request", func(t *testing.T) {
		rec := doJSON(env.handler.HandleStudentCourses, http.MethodGet, "/api/student/courses", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero enrollments is an empty list", func(t *testing.T) {
		other := env.createStudent(t, "s2@example.ma")
		rec := doJSON(env.handler.HandleStudentCourses, http.MethodGet, "/api/student/courses?studentId="+other.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rows":[]`)
		assert.Empty(t, decodeRows(t, rec))
	})

	t.Run("enrollment into a deleted course joins to nothing", func(t *testing.T) {
		doomed := env.createCourse(t, professor.ID, "Latin")
		env.enroll(t, student.ID, doomed.ID)
		require.NoError(t, env.service.Store.DeleteCourse(doomed.ID))

		rec := doJSON(env.handler.HandleStudentCourses, http.MethodGet, "/api/student/courses?studentId="+student.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decodeRows(t, rec)
		require.Len(t, rows, 1)
		assert.Equal(t, "Math", rows[0]["title"])
	})
}

func TestStudentGradesEndpoint(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	professor := env.createProfessor(t, "p1@example.ma")
	course := env.createCourse(t, professor.ID, "Math")
	env.enroll(t, student.ID, course.ID)

	t.Run("no grades yields null averages", func(t *testing.T) {
		rec := doJSON(env.handler.HandleStudentGrades, http.MethodGet, "/api/student/grades?studentId="+student.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Nil(t, payload["average"])
		assert.Nil(t, payload["weighted_average"])
	})

	t.Run("averages follow the grade set", func(t *testing.T) {
		for _, v := range []float64{14, 16} {
			g := &models.Grade{
				StudentID:    student.ID,
				CourseID:     course.ID,
				Subject:      "math",
				Value:        v,
				Coefficient:  1,
				AcademicYear: "2025-2026",
			}
			require.NoError(t, env.service.Store.CreateGrade(g))
		}

		rec := doJSON(env.handler.HandleStudentGrades, http.MethodGet, "/api/student/grades?studentId="+student.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.InDelta(t, 15.0, payload["average"].(float64), 1e-9)
	})

	t.Run("rows are course-scoped, averages are personal", func(t *testing.T) {
		classmate := env.createStudent(t, "s2@example.ma")
		env.enroll(t, classmate.ID, course.ID)
		g := &models.Grade{
			StudentID:    classmate.ID,
			CourseID:     course.ID,
			Subject:      "math",
			Value:        0,
			Coefficient:  1,
			AcademicYear: "2025-2026",
		}
		require.NoError(t, env.service.Store.CreateGrade(g))

		rec := doJSON(env.handler.HandleStudentGrades, http.MethodGet, "/api/student/grades?studentId="+student.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Rows    []models.Grade `json:"rows"`
			Average *float64       `json:"average"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

		// The classmate's grade shows up in the course-scoped rows but
		// must not drag the student's own average down.
		assert.Len(t, payload.Rows, 3)
		require.NotNil(t, payload.Average)
		assert.InDelta(t, 15.0, *payload.Average, 1e-9)
	})
}

func TestCreateSubmissionEndpoint(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	outsider := env.createStudent(t, "s2@example.ma")
	professor := env.createProfessor(t, "p1@example.ma")
	course := env.createCourse(t, professor.ID, "Math")
	env.enroll(t, student.ID, course.ID)

	assignment := &models.Assignment{CourseID: course.ID, Title: "hw1", DueDate: 2000, MaxPoints: 20}
	require.NoError(t, env.service.Store.CreateAssignment(assignment))

	t.Run("enrolled student may submit", func(t *testing.T) {
		body := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Content: "answer"}
		rec := doJSON(env.handler.HandleCreateSubmission, http.MethodPost, "/api/student/submissions?studentId="+student.ID, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created models.Submission
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.Equal(t, models.SubmissionSubmitted, created.Status)
		assert.Nil(t, created.Grade, "grade is never set on submit")
	})

	t.Run("non-enrolled student is forbidden", func(t *testing.T) {
		body := models.Submission{AssignmentID: assignment.ID, StudentID: outsider.ID, Content: "answer"}
		rec := doJSON(env.handler.HandleCreateSubmission, http.MethodPost, "/api/student/submissions?studentId="+outsider.ID, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("submitting for someone else is forbidden", func(t *testing.T) {
		body := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Content: "answer"}
		rec := doJSON(env.handler.HandleCreateSubmission, http.MethodPost, "/api/student/submissions?studentId="+outsider.ID, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("absent assignment is not found", func(t *testing.T) {
		body := models.Submission{AssignmentID: "nope", StudentID: student.ID, Content: "answer"}
		rec := doJSON(env.handler.HandleCreateSubmission, http.MethodPost, "/api/student/submissions?studentId="+student.ID, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCourseOwnershipOnWrite(t *testing.T) {
	env := setupEnv(t)
	owner := env.createProfessor(t, "p1@example.ma")
	rival := env.createProfessor(t, "p2@example.ma")
	course := env.createCourse(t, owner.ID, "Math")

	update := map[string]interface{}{"title": "Math II", "active": true}

	t.Run("non-owner gets forbidden, not not-found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/professor/courses/"+course.ID+"?professorId="+rival.ID, encode(update))
		req.SetPathValue("id", course.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleUpdateCourse(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("absent course is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/professor/courses/nope?professorId="+owner.ID, encode(update))
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		env.handler.HandleUpdateCourse(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner updates without losing ownership", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/professor/courses/"+course.ID+"?professorId="+owner.ID, encode(update))
		req.SetPathValue("id", course.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleUpdateCourse(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		got, err := env.service.Store.GetCourse(course.ID)
		require.NoError(t, err)
		assert.Equal(t, "Math II", got.Title)
		assert.Equal(t, owner.ID, got.ProfessorID)
	})
}

func TestGradeSubmissionEndpoint(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	owner := env.createProfessor(t, "p1@example.ma")
	rival := env.createProfessor(t, "p2@example.ma")
	course := env.createCourse(t, owner.ID, "Math")
	env.enroll(t, student.ID, course.ID)

	assignment := &models.Assignment{CourseID: course.ID, Title: "hw1", MaxPoints: 20}
	require.NoError(t, env.service.Store.CreateAssignment(assignment))
	sub := &models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Content: "answer"}
	require.NoError(t, env.service.Store.CreateSubmission(sub))

	grade := func(professorID string, body interface{}) *httptest.ResponseRecorder {
		target := fmt.Sprintf("/api/professor/submissions/%s/grade?professorId=%s", sub.ID, professorID)
		req := httptest.NewRequest(http.MethodPost, target, encode(body))
		req.SetPathValue("id", sub.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleGradeSubmission(rec, req)
		return rec
	}

	t.Run("rival professor may not grade", func(t *testing.T) {
		rec := grade(rival.ID, map[string]interface{}{"grade": 12.0})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner grades with default status", func(t *testing.T) {
		rec := grade(owner.ID, map[string]interface{}{"grade": 17.5})
		require.Equal(t, http.StatusOK, rec.Code)

		got, err := env.service.Store.GetSubmission(sub.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Grade)
		assert.Equal(t, 17.5, *got.Grade)
		assert.Equal(t, models.SubmissionGraded, got.Status)
		assert.NotNil(t, got.GradedAt)
	})

	t.Run("bogus status is rejected", func(t *testing.T) {
		rec := grade(owner.ID, map[string]interface{}{"grade": 17.5, "status": "pending"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminReportEndpoints(t *testing.T) {
	env := setupEnv(t)
	admin := &models.Account{Email: "admin@example.ma", Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, app.SetPassword(admin, "hunter2"))
	require.NoError(t, env.service.Store.CreateAccount(admin))

	level := "TC-S"
	paid := "paid"
	withProfile := &models.Account{
		Email: "s1@example.ma", Name: "S1", Role: models.RoleStudent,
		StudentProfile: models.StudentProfile{ClassLevel: &level, FeeStatus: &paid, Scholarship: true},
	}
	require.NoError(t, env.service.Store.CreateAccount(withProfile))
	bare := &models.Account{Email: "s2@example.ma", Name: "S2", Role: models.RoleStudent}
	require.NoError(t, env.service.Store.CreateAccount(bare))

	t.Run("class buckets include unknown", func(t *testing.T) {
		rec := doJSON(env.handler.HandleAdminClassBuckets, http.MethodGet, "/api/admin/reports/classes?adminId="+admin.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Buckets map[string]int `json:"buckets"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, 1, payload.Buckets["TC-S"])
		assert.Equal(t, 1, payload.Buckets["unknown"])
	})

	t.Run("fee report", func(t *testing.T) {
		rec := doJSON(env.handler.HandleAdminFeeReport, http.MethodGet, "/api/admin/reports/fees?adminId="+admin.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			FeeBuckets   map[string]int `json:"fee_buckets"`
			Scholarships int            `json:"scholarships"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, 1, payload.FeeBuckets["paid"])
		assert.Equal(t, 1, payload.FeeBuckets["unknown"])
		assert.Equal(t, 1, payload.Scholarships)
	})

	t.Run("missing adminId is a bad request", func(t *testing.T) {
		rec := doJSON(env.handler.HandleAdminFeeReport, http.MethodGet, "/api/admin/reports/fees", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")

	t.Run("valid credentials", func(t *testing.T) {
		rec := doJSON(env.handler.HandleLogin, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "s1@example.ma", "password": "hunter2"})
		require.Equal(t, http.StatusOK, rec.Code)

		var payload loginResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, student.ID, payload.ID)
		assert.Equal(t, "student", payload.Role)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrongPassword := doJSON(env.handler.HandleLogin, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "s1@example.ma", "password": "nope"})
		unknownEmail := doJSON(env.handler.HandleLogin, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "ghost@example.ma", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(env.handler.HandleLogin, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "s1@example.ma"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	other := env.createStudent(t, "s2@example.ma")

	n := &models.Notification{AccountID: student.ID, Title: "Due soon", Message: "hw1"}
	require.NoError(t, env.service.Store.CreateNotification(n))

	list := func(accountID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/student/notifications?accountId="+accountID, nil)
		req.SetPathValue("role", "student")
		rec := httptest.NewRecorder()
		env.handler.HandleNotifications(rec, req)
		return rec
	}

	t.Run("own notifications only", func(t *testing.T) {
		rec := list(student.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeRows(t, rec), 1)

		rec = list(other.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeRows(t, rec))
	})

	t.Run("mark read is owner-only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/student/notifications/"+n.ID+"/read?accountId="+other.ID, nil)
		req.SetPathValue("role", "student")
		req.SetPathValue("id", n.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleMarkNotificationRead(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/student/notifications/"+n.ID+"/read?accountId="+student.ID, nil)
		req.SetPathValue("role", "student")
		req.SetPathValue("id", n.ID)
		rec = httptest.NewRecorder()
		env.handler.HandleMarkNotificationRead(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		got, err := env.service.Store.GetNotification(n.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
	})

	t.Run("admin delete", func(t *testing.T) {
		admin := &models.Account{Email: "admin@example.ma", Name: "Admin", Role: models.RoleAdmin}
		require.NoError(t, app.SetPassword(admin, "hunter2"))
		require.NoError(t, env.service.Store.CreateAccount(admin))

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/notifications/"+n.ID+"?adminId="+admin.ID, nil)
		req.SetPathValue("id", n.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleAdminDeleteNotification(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		got, err := env.service.Store.GetNotification(n.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		req = httptest.NewRequest(http.MethodDelete, "/api/admin/notifications/"+n.ID+"?adminId="+admin.ID, nil)
		req.SetPathValue("id", n.ID)
		rec = httptest.NewRecorder()
		env.handler.HandleAdminDeleteNotification(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventEndpoints(t *testing.T) {
	env := setupEnv(t)
	admin := &models.Account{Email: "admin@example.ma", Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, app.SetPassword(admin, "hunter2"))
	require.NoError(t, env.service.Store.CreateAccount(admin))

	body := models.Event{Title: "Parents day", StartsAt: 5000, Kind: "school"}
	rec := doJSON(env.handler.HandleAdminCreateEvent, http.MethodPost, "/api/admin/events?adminId="+admin.ID, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/student/events/"+created.ID, nil)
		req.SetPathValue("role", "student")
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()
		env.handler.HandleGetEvent(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Event
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Parents day", got.Title)
	})

	t.Run("absent event is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/student/events/nope", nil)
		req.SetPathValue("role", "student")
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		env.handler.HandleGetEvent(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfessorStatusCounts(t *testing.T) {
	env := setupEnv(t)
	professor := env.createProfessor(t, "p1@example.ma")
	course := env.createCourse(t, professor.ID, "Math")
	s1 := env.createStudent(t, "s1@example.ma")
	s2 := env.createStudent(t, "s2@example.ma")
	env.enroll(t, s1.ID, course.ID)

	dropped := &models.Enrollment{StudentID: s2.ID, CourseID: course.ID, Status: models.EnrollmentDropped}
	require.NoError(t, env.service.Store.CreateEnrollment(dropped))

	assignment := &models.Assignment{CourseID: course.ID, Title: "hw1", MaxPoints: 20}
	require.NoError(t, env.service.Store.CreateAssignment(assignment))
	sub := &models.Submission{AssignmentID: assignment.ID, StudentID: s1.ID, Content: "a"}
	require.NoError(t, env.service.Store.CreateSubmission(sub))
	graded := &models.Submission{AssignmentID: assignment.ID, StudentID: s2.ID, Content: "b", Status: models.SubmissionGraded}
	require.NoError(t, env.service.Store.CreateSubmission(graded))

	t.Run("enrollments", func(t *testing.T) {
		rec := doJSON(env.handler.HandleProfessorEnrollments, http.MethodGet, "/api/professor/enrollments?professorId="+professor.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			StatusCounts map[string]int `json:"status_counts"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, 1, payload.StatusCounts["active"])
		assert.Equal(t, 1, payload.StatusCounts["dropped"])
	})

	t.Run("submissions", func(t *testing.T) {
		rec := doJSON(env.handler.HandleProfessorSubmissions, http.MethodGet, "/api/professor/submissions?professorId="+professor.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			StatusCounts map[string]int `json:"status_counts"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, 1, payload.StatusCounts["submitted"])
		assert.Equal(t, 1, payload.StatusCounts["graded"])
	})
}

func TestStoreFailureIsNotEmpty(t *testing.T) {
	env := setupEnv(t)
	student := env.createStudent(t, "s1@example.ma")
	admin := &models.Account{Email: "admin@example.ma", Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, app.SetPassword(admin, "hunter2"))
	require.NoError(t, env.service.Store.CreateAccount(admin))

	// A dead store must surface as a failure, never as an empty 200.
	require.NoError(t, env.service.Store.Close())

	t.Run("scoped list", func(t *testing.T) {
		rec := doJSON(env.handler.HandleStudentCourses, http.MethodGet, "/api/student/courses?studentId="+student.ID, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "store failure")
		assert.NotContains(t, rec.Body.String(), `"rows"`)
	})

	t.Run("student grades view", func(t *testing.T) {
		rec := doJSON(env.handler.HandleStudentGrades, http.MethodGet, "/api/student/grades?studentId="+student.ID, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "store failure")
	})

	t.Run("admin aggregation", func(t *testing.T) {
		rec := doJSON(env.handler.HandleAdminClassBuckets, http.MethodGet, "/api/admin/reports/classes?adminId="+admin.ID, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "store failure")
	})
}

func encode(v interface{}) *bytes.Buffer {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(v)
	return &buf
}
