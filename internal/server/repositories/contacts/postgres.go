package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vmakarenko/contactvault/internal/common"
	"github.com/vmakarenko/contactvault/internal/dbx"
	"github.com/vmakarenko/contactvault/internal/server/models"
)

const uniqueViolation = "23505"

const contactColumns = `id, first_name, last_name, email, phone, birthday, description, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanContact(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Birthday, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectContacts(rows *sql.Rows) ([]*models.Contact, error) {
	defer rows.Close()

	result := []*models.Contact{}
	for rows.Next() {
		c := &models.Contact{}
		err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Birthday, &c.Description, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1
	`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Birthday, contact.Description).
		Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM contacts WHERE email = $1 AND id <> $2
		)
	`
	var taken bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch *models.ContactPatch) (*models.Contact, error) {
	set := []string{}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Birthday != nil {
		add("birthday", *patch.Birthday)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	query := `
		UPDATE contacts SET ` + strings.Join(set, ", ") + `
		WHERE id = $1
		RETURNING ` + contactColumns + `
	`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM contacts
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, firstName, lastName, email string) ([]*models.Contact, error) {
	where := []string{}
	args := []any{}

	add := func(column, value string) {
		args = append(args, "%"+value+"%")
		where = append(where, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}

	if firstName != "" {
		add("first_name", firstName)
	}
	if lastName != "" {
		add("last_name", lastName)
	}
	if email != "" {
		add("email", email)
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
	`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}

func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, today time.Time) ([]*models.Contact, error) {
	end := today.AddDate(0, 0, 7)

	var condition string
	args := []any{}

	if today.Month() == end.Month() {
		condition = `
			EXTRACT(MONTH FROM birthday) = $1
			AND EXTRACT(DAY FROM birthday) BETWEEN $2 AND $3`
		args = append(args, int(today.Month()), today.Day(), end.Day())
	} else {
		// The window spans a month boundary, including December into January.
		condition = `
			(EXTRACT(MONTH FROM birthday) = $1 AND EXTRACT(DAY FROM birthday) >= $2)
			OR (EXTRACT(MONTH FROM birthday) = $3 AND EXTRACT(DAY FROM birthday) <= $4)`
		args = append(args, int(today.Month()), today.Day(), int(end.Month()), end.Day())
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE ` + condition + `
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}
