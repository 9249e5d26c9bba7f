package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/edusphere/backend/internal/models"
)

// ErrNotFound is returned by Update*/Delete* when the target row does
// not exist. Get* methods keep returning (nil, nil) for absence.
var ErrNotFound = errors.New("not found")

const accountColumns = `
	id, email, name, role, password_hash, created_at,
	massar_id, cne, cin, wilaya, class_level,
	guardian_name, guardian_phone, scholarship, fee_status, conduct_score
`

func (s *BaseStore) CreateAccount(a *models.Account) error {
	a.ID = newID(a.ID)
	a.CreatedAt = stampNow(a.CreatedAt)
	_, err := s.DB.NamedExec(`
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (
			:id, :email, :name, :role, :password_hash, :created_at,
			:massar_id, :cne, :cin, :wilaya, :class_level,
			:guardian_name, :guardian_phone, :scholarship, :fee_status, :conduct_score
		)
	`, a)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *BaseStore) GetAccount(id string) (*models.Account, error) {
	var a models.Account
	query := s.Converter(`SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`)

	err := s.DB.Get(&a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

func (s *BaseStore) GetAccountByEmail(email string) (*models.Account, error) {
	var a models.Account
	query := s.Converter(`SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`)

	err := s.DB.Get(&a, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &a, nil
}

func (s *BaseStore) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	err := s.DB.Select(&accounts, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY name, email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *BaseStore) ListAccountsByRole(role models.Role) ([]models.Account, error) {
	var accounts []models.Account
	query := s.Converter(`
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE role = ?
		ORDER BY name, email
	`)

	err := s.DB.Select(&accounts, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by role: %w", err)
	}
	return accounts, nil
}

func (s *BaseStore) UpdateAccount(a *models.Account) error {
	res, err := s.DB.NamedExec(`
		UPDATE accounts SET
			email = :email,
			name = :name,
			role = :role,
			password_hash = :password_hash,
			massar_id = :massar_id,
			cne = :cne,
			cin = :cin,
			wilaya = :wilaya,
			class_level = :class_level,
			guardian_name = :guardian_name,
			guardian_phone = :guardian_phone,
			scholarship = :scholarship,
			fee_status = :fee_status,
			conduct_score = :conduct_score
		WHERE id = :id
	`, a)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteAccount(id string) error {
	query := s.Converter(`DELETE FROM accounts WHERE id = ?`)
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
