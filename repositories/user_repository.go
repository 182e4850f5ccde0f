package repositories

import (
	"context"
	"errors"
	"time"

	"booknest/models"

	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int, hashedPassword string) error
	SetResetToken(ctx context.Context, userID int, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, userID int) error
}

type PgUserRepository struct{}

func NewPgUserRepository() *PgUserRepository {
	return &PgUserRepository{}
}

const userColumns = `id, full_name, username, email, password, COALESCE(phone,''),
	COALESCE(address,''), COALESCE(google_id,''), auth_provider, is_verified,
	COALESCE(reset_token,''), reset_token_expiry, created_at, updated_at`

func (r *PgUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	return models.DB.QueryRow(ctx,
		`INSERT INTO users (full_name, username, email, password, phone, address,
			google_id, auth_provider, is_verified, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		user.FullName, user.Username, user.Email, user.Password, user.Phone,
		user.Address, user.GoogleID, user.AuthProvider, user.IsVerified, now, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *PgUserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE reset_token = $1", token)
}

func (r *PgUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := models.DB.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email, &user.Password,
		&user.Phone, &user.Address, &user.GoogleID, &user.AuthProvider,
		&user.IsVerified, &user.ResetToken, &user.ResetExpiry,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *PgUserRepository) Update(ctx context.Context, user *models.User) error {
	result, err := models.DB.Exec(ctx,
		`UPDATE users SET full_name = $1, phone = $2, address = $3,
			google_id = NULLIF($4,''), auth_provider = $5, updated_at = $6
		WHERE id = $7`,
		user.FullName, user.Phone, user.Address, user.GoogleID,
		user.AuthProvider, time.Now(), user.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	_, err := models.DB.Exec(ctx,
		"UPDATE users SET password = $1, updated_at = $2 WHERE id = $3",
		hashedPassword, time.Now(), userID)
	return err
}

func (r *PgUserRepository) SetResetToken(ctx context.Context, userID int, token string, expiry time.Time) error {
	_, err := models.DB.Exec(ctx,
		"UPDATE users SET reset_token = $1, reset_token_expiry = $2, updated_at = $3 WHERE id = $4",
		token, expiry, time.Now(), userID)
	return err
}

func (r *PgUserRepository) ClearResetToken(ctx context.Context, userID int) error {
	_, err := models.DB.Exec(ctx,
		"UPDATE users SET reset_token = NULL, reset_token_expiry = NULL, updated_at = $1 WHERE id = $2",
		time.Now(), userID)
	return err
}
