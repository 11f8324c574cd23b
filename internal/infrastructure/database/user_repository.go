package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

const usersTable = "users"

// MySQL duplicate-entry error number.
const errDupEntry = 1062

// userRepository is the SQL implementation of domain.UserRepository.
type userRepository struct {
	drv     *entsql.Driver
	builder *entsql.DialectBuilder
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(drv *entsql.Driver) domain.UserRepository {
	return &userRepository{
		drv:     drv,
		builder: entsql.Dialect(dialect.MySQL),
	}
}

var userColumns = []string{
	"id", "name", "email", "mobile", "password_hash", "role",
	"is_verified", "is_active", "last_login_at", "created_at", "updated_at",
}

// Create stores a new account.
func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*entity.User, error) {
	query, args := r.builder.
		Insert(usersTable).
		Columns("name", "email", "password_hash", "role").
		Values(name, email, passwordHash, string(entity.RoleStandard)).
		Query()

	res, err := r.drv.DB().ExecContext(ctx, query, args...)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == errDupEntry {
			return nil, domain.NewAlreadyExistsError("User", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByEmail looks up an account for login.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query, args := r.builder.
		Select(userColumns...).
		From(entsql.Table(usersTable)).
		Where(entsql.EQ("email", email)).
		Query()

	user, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByID looks up an account by id.
func (r *userRepository) GetByID(ctx context.Context, userID int64) (*entity.User, error) {
	query, args := r.builder.
		Select(userColumns...).
		From(entsql.Table(usersTable)).
		Where(entsql.EQ("id", userID)).
		Query()

	user, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("User", fmt.Sprint(userID))
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateLastLogin records a successful login.
func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query, args := r.builder.
		Update(usersTable).
		Set("last_login_at", time.Now()).
		Where(entsql.EQ("id", userID)).
		Query()

	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *userRepository) scanOne(ctx context.Context, query string, args []interface{}) (*entity.User, error) {
	var (
		u         entity.User
		mobile    sql.NullString
		hash      sql.NullString
		role      string
		lastLogin sql.NullTime
	)
	err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &mobile, &hash, &role,
		&u.IsVerified, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Mobile = nullableString(mobile)
	u.PasswordHash = hash.String
	u.Role = entity.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}
