// Package reports computes read-only summaries over scoped record
// sets. Everything here is recomputed per call; nothing is cached.
//
// Averages over an empty set are nil, never zero: "no data" and "zero
// out of twenty" mean very different things on a report card.
package reports

import (
	"github.com/edusphere/backend/internal/models"
)

// UnknownClass is the bucket label for students with no class level.
const UnknownClass = "unknown"

// Average is the arithmetic mean of grade values, nil for an empty set.
func Average(grades []models.Grade) *float64 {
	if len(grades) == 0 {
		return nil
	}

	var sum float64
	for _, g := range grades {
		sum += g.Value
	}
	avg := sum / float64(len(grades))
	return &avg
}

// WeightedAverage weights each grade by its subject coefficient. When
// every coefficient is zero the plain arithmetic mean is used instead,
// so a set of unweighted grades still averages sensibly.
func WeightedAverage(grades []models.Grade) *float64 {
	if len(grades) == 0 {
		return nil
	}

	var sum, weight float64
	for _, g := range grades {
		sum += g.Value * g.Coefficient
		weight += g.Coefficient
	}
	if weight == 0 {
		return Average(grades)
	}
	avg := sum / weight
	return &avg
}

// EnrollmentStatusCounts partitions enrollments by status.
func EnrollmentStatusCounts(enrollments []models.Enrollment) map[models.EnrollmentStatus]int {
	counts := make(map[models.EnrollmentStatus]int)
	for _, e := range enrollments {
		counts[e.Status]++
	}
	return counts
}

// SubmissionStatusCounts partitions submissions by status.
func SubmissionStatusCounts(subs []models.Submission) map[models.SubmissionStatus]int {
	counts := make(map[models.SubmissionStatus]int)
	for _, s := range subs {
		counts[s.Status]++
	}
	return counts
}

// AssignmentProgress splits a student's assignment set into pending and
// completed based on whether any submission exists for the assignment.
type AssignmentProgress struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func AssignmentProgressFor(studentID string, assignments []models.Assignment, subs []models.Submission) AssignmentProgress {
	submitted := make(map[string]bool, len(subs))
	for _, s := range subs {
		if s.StudentID == studentID {
			submitted[s.AssignmentID] = true
		}
	}

	var progress AssignmentProgress
	for _, a := range assignments {
		if submitted[a.ID] {
			progress.Completed++
		} else {
			progress.Pending++
		}
	}
	return progress
}

// GroupStudentsByClass buckets student accounts by class level. A
// missing level lands in the "unknown" bucket rather than being
// dropped.
func GroupStudentsByClass(students []models.Account) map[string]int {
	buckets := make(map[string]int)
	for _, a := range students {
		if a.Role != models.RoleStudent {
			continue
		}
		label := UnknownClass
		if a.ClassLevel != nil && *a.ClassLevel != "" {
			label = *a.ClassLevel
		}
		buckets[label]++
	}
	return buckets
}

// FeeStatusBuckets counts students per fee status (paid/pending/
// overdue); students without a recorded status are bucketed under
// "unknown".
func FeeStatusBuckets(students []models.Account) map[string]int {
	buckets := make(map[string]int)
	for _, a := range students {
		if a.Role != models.RoleStudent {
			continue
		}
		label := UnknownClass
		if a.FeeStatus != nil && *a.FeeStatus != "" {
			label = *a.FeeStatus
		}
		buckets[label]++
	}
	return buckets
}

// ScholarshipCount counts scholarship recipients among students.
func ScholarshipCount(students []models.Account) int {
	var count int
	for _, a := range students {
		if a.Role == models.RoleStudent && a.Scholarship {
			count++
		}
	}
	return count
}
