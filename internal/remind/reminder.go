package remind

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/store"
)

// Reminder periodically notifies enrolled students about assignments
// whose due date falls inside the configured window.
type Reminder struct {
	config    *app.Config
	store     store.EntityStore
	scheduler *gocron.Scheduler
}

func NewReminder(config *app.Config, st store.EntityStore) (*Reminder, error) {
	r := &Reminder{
		config:    config,
		store:     st,
		scheduler: gocron.NewScheduler(time.UTC),
	}

	if _, err := r.scheduler.Cron(config.Reminder.Cron).Do(func() {
		if err := r.Run(); err != nil {
			logger.Error.Printf("Reminder run failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule reminder: %w", err)
	}

	return r, nil
}

func (r *Reminder) Start() {
	r.scheduler.StartAsync()
}

func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Run sends one notification per student per assignment due inside the
// window. Students who already submitted are skipped.
func (r *Reminder) Run() error {
	now := time.Now().UTC()
	until := now.Add(time.Duration(r.config.Reminder.DueSoonHours) * time.Hour)

	assignments, err := r.store.ListAssignmentsDueBetween(now.Unix(), until.Unix())
	if err != nil {
		return fmt.Errorf("failed to list due assignments: %w", err)
	}
	if len(assignments) == 0 {
		logger.Debug.Println("No assignments due inside the reminder window")
		return nil
	}

	sent := 0
	for _, assignment := range assignments {
		enrollments, err := r.store.ListEnrollmentsByCourses([]string{assignment.CourseID})
		if err != nil {
			return fmt.Errorf("failed to list enrollments for course %s: %w", assignment.CourseID, err)
		}
		submitted, err := r.submittedStudents(assignment.ID)
		if err != nil {
			return err
		}

		for _, enrollment := range enrollments {
			if enrollment.Status != models.EnrollmentActive {
				continue
			}
			if submitted[enrollment.StudentID] {
				continue
			}
			notification := models.Notification{
				AccountID: enrollment.StudentID,
				Title:     "Assignment due soon",
				Message:   fmt.Sprintf("%q is due %s", assignment.Title, time.Unix(assignment.DueDate, 0).UTC().Format("2006-01-02 15:04")),
			}
			if err := r.store.CreateNotification(&notification); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			sent++
		}
	}

	logger.Info.Printf("Reminder pass done, %d assignments due, %d notifications sent", len(assignments), sent)
	return nil
}

func (r *Reminder) submittedStudents(assignmentID string) (map[string]bool, error) {
	subs, err := r.store.ListSubmissionsByAssignment(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for assignment %s: %w", assignmentID, err)
	}
	out := make(map[string]bool, len(subs))
	for _, sub := range subs {
		out[sub.StudentID] = true
	}
	return out, nil
}
