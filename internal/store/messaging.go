package store

import (
	"database/sql"
	"fmt"

	"github.com/edusphere/backend/internal/models"
)

func (s *BaseStore) CreateEvent(e *models.Event) error {
	e.ID = newID(e.ID)
	_, err := s.DB.NamedExec(`
		INSERT INTO events (id, title, starts_at, kind, description, owner_id)
		VALUES (:id, :title, :starts_at, :kind, :description, :owner_id)
	`, e)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *BaseStore) GetEvent(id string) (*models.Event, error) {
	var e models.Event
	query := s.Converter(`
		SELECT id, title, starts_at, kind, description, owner_id
		FROM events
		WHERE id = ?
	`)

	err := s.DB.Get(&e, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

func (s *BaseStore) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Select(&events, `
		SELECT id, title, starts_at, kind, description, owner_id
		FROM events
		ORDER BY starts_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *BaseStore) DeleteEvent(id string) error {
	query := s.Converter(`DELETE FROM events WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateAnnouncement(a *models.Announcement) error {
	a.ID = newID(a.ID)
	a.CreatedAt = stampNow(a.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO announcements (id, title, body, audience, created_at)
		VALUES (:id, :title, :body, :audience, :created_at)
	`, a)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (s *BaseStore) ListAnnouncementsForAudience(audience string) ([]models.Announcement, error) {
	var announcements []models.Announcement
	query := s.Converter(`
		SELECT id, title, body, audience, created_at
		FROM announcements
		WHERE audience = ? OR audience = ?
		ORDER BY created_at DESC
	`)

	err := s.DB.Select(&announcements, query, audience, models.AudienceAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

func (s *BaseStore) DeleteAnnouncement(id string) error {
	query := s.Converter(`DELETE FROM announcements WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateNotification(n *models.Notification) error {
	n.ID = newID(n.ID)
	n.CreatedAt = stampNow(n.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO notifications (id, account_id, title, message, read, created_at)
		VALUES (:id, :account_id, :title, :message, :read, :created_at)
	`, n)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *BaseStore) GetNotification(id string) (*models.Notification, error) {
	var n models.Notification
	query := s.Converter(`
		SELECT id, account_id, title, message, read, created_at
		FROM notifications
		WHERE id = ?
	`)

	err := s.DB.Get(&n, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (s *BaseStore) ListNotificationsByAccount(accountID string) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.Converter(`
		SELECT id, account_id, title, message, read, created_at
		FROM notifications
		WHERE account_id = ?
		ORDER BY created_at DESC
	`)

	err := s.DB.Select(&notifications, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *BaseStore) MarkNotificationRead(id string) (*models.Notification, error) {
	query := s.Converter(`UPDATE notifications SET read = TRUE WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetNotification(id)
}

func (s *BaseStore) DeleteNotification(id string) error {
	query := s.Converter(`DELETE FROM notifications WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
