package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/storefront-identity/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const codeUniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, role, is_verified, otp_code, otp_expires_at, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user      model.User
		role      string
		otpCode   sql.NullString
		otpExpiry sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.IsVerified,
		&otpCode, &otpExpiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	user.Role = model.Role(role)
	if otpCode.Valid && otpExpiry.Valid {
		user.OTP = &model.OneTimeCode{Code: otpCode.String, ExpiresAt: otpExpiry.Time}
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, name, email, password_hash, role, is_verified, otp_code, otp_expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + userColumns

	otpCode, otpExpiry := otpColumns(user.OTP)

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, model.NormalizeEmail(user.Email), user.PasswordHash, string(user.Role), user.IsVerified,
		otpCode, otpExpiry, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) SetOTP(ctx context.Context, id uuid.UUID, code model.OneTimeCode) error {
	query := `UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, code.Code, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}

	return expectOneRow(res, model.ErrNotFound)
}

func (r *UserRepository) ConsumeOTP(ctx context.Context, id uuid.UUID, code string, now time.Time) error {
	query := `UPDATE users SET is_verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1 AND otp_code = $2 AND otp_expires_at >= $3 AND is_verified = FALSE`

	res, err := r.db.ExecContext(ctx, query, id, code, now)
	if err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	return expectOneRow(res, model.ErrOTPStale)
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}

	return expectOneRow(res, model.ErrNotFound)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE users
			  SET name = COALESCE($2, name), password_hash = COALESCE($3, password_hash), updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, nullString(update.Name), nullString(update.PasswordHash)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func expectOneRow(res sql.Result, notMatched error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notMatched
	}
	return nil
}

func otpColumns(code *model.OneTimeCode) (sql.NullString, sql.NullTime) {
	if code == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: code.Code, Valid: true}, sql.NullTime{Time: code.ExpiresAt, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
