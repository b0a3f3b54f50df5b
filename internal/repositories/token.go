package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

var _ models.Repository[*models.Token] = (*TokenRepository)(nil)

// TokenRepository implements [models.Repository] for [models.Token] persistence.
//
// At most one live token exists per role; older ones are soft-deleted.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

const tokenColumns = `id, sequence, role, value, account_name, account_email, created_at, updated_at, deleted_at`

// Create inserts a new token with generated ID and sequence
func (r *TokenRepository) Create(token *models.Token) error {
	sequence, err := NextSequence(r.db, "tokens")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	token.SetID(id)
	token.SetSequence(sequence)

	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tokens (id, sequence, role, value, account_name, account_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, token.Role(), token.Value(), token.AccountName(), token.AccountEmail(),
		token.CreatedAt(), token.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	return nil
}

// Get retrieves a token by ID, excluding soft-deleted tokens
func (r *TokenRepository) Get(id string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = ? AND deleted_at IS NULL`

	token, err := scanToken(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: token %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	return token, nil
}

// GetByRole returns the live token for role.
//
// Returns [shared.ErrNotAuthenticated] when the role has never logged in or has logged out.
func (r *TokenRepository) GetByRole(role string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE role = ? AND deleted_at IS NULL`

	token, err := scanToken(r.db.QueryRow(query, role))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no %s token stored", shared.ErrNotAuthenticated, role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	return token, nil
}

// Update modifies the value and account details of an existing token
func (r *TokenRepository) Update(token *models.Token) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	token.SetUpdatedAt(now)

	query := `
		UPDATE tokens
		SET value = ?, account_name = ?, account_email = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, token.Value(), token.AccountName(), token.AccountEmail(), now, token.ID())
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return requireRow(result, "token", token.ID())
}

// Delete soft-deletes a token by ID
func (r *TokenRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tokens SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return requireRow(result, "token", id)
}

// DeleteByRole soft-deletes the live token for role. It is not an error if there is none.
func (r *TokenRepository) DeleteByRole(role string) error {
	_, err := r.db.Exec(`UPDATE tokens SET deleted_at = ? WHERE role = ? AND deleted_at IS NULL`, time.Now(), role)
	if err != nil {
		return fmt.Errorf("failed to delete %s token: %w", role, err)
	}
	return nil
}

// Save stores session as the live token for role, replacing any previous one.
func (r *TokenRepository) Save(role string, session models.Session) (*models.Token, error) {
	if err := r.DeleteByRole(role); err != nil {
		return nil, err
	}

	token := models.NewToken(0, role, session)
	if err := r.Create(token); err != nil {
		return nil, err
	}
	return token, nil
}

// List retrieves tokens matching criteria, excluding soft-deleted ones.
//
// Supported criteria: "role" (string).
func (r *TokenRepository) List(criteria map[string]any) ([]*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE deleted_at IS NULL`
	args := []any{}

	if role, ok := criteria["role"].(string); ok && role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.Token
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tokens, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(row scanner) (*models.Token, error) {
	var (
		id, role, value    string
		name, email        string
		sequence           int
		createdAt, updated time.Time
		deletedAt          sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &role, &value, &name, &email, &createdAt, &updated, &deletedAt); err != nil {
		return nil, err
	}

	token := models.NewToken(sequence, role, models.Session{Token: value})
	token.SetID(id)
	token.SetAccount(name, email)
	token.SetCreatedAt(createdAt)
	token.SetUpdatedAt(updated)
	if deletedAt.Valid {
		token.SetDeletedAt(&deletedAt.Time)
	}
	return token, nil
}

func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s not found or already deleted", shared.ErrNotFound, kind, id)
	}
	return nil
}
