package usecase

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// Mock UserRepository for testing
type testUserRepository struct {
	users  map[string]*entity.User
	nextID int64
}

func newTestUserRepository() *testUserRepository {
	return &testUserRepository{
		users:  make(map[string]*entity.User),
		nextID: 1,
	}
}

func (r *testUserRepository) Create(ctx context.Context, name, email, passwordHash string) (*entity.User, error) {
	user := &entity.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         entity.RoleStandard,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.nextID++
	r.users[email] = user
	return user, nil
}

func (r *testUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if user, ok := r.users[email]; ok {
		return user, nil
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *testUserRepository) GetByID(ctx context.Context, userID int64) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, domain.NewNotFoundError("User", "by id")
}

func (r *testUserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	return nil
}

func TestRegister(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	tests := []struct {
		name        string
		userName    string
		email       string
		password    string
		setupMock   func(*testUserRepository)
		wantErr     bool
		errContains string
	}{
		{
			name:     "successful registration",
			userName: "Test User",
			email:    "test@example.com",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "email already registered",
			userName: "Test User",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *testUserRepository) {
				m.users["existing@example.com"] = &entity.User{ID: 99, Email: "existing@example.com"}
			},
			wantErr:     true,
			errContains: "already exists",
		},
		{
			name:        "empty name",
			userName:    "",
			email:       "test@example.com",
			password:    "password123",
			wantErr:     true,
			errContains: "1-100 characters",
		},
		{
			name:        "invalid email",
			userName:    "Test User",
			email:       "not-an-email",
			password:    "password123",
			wantErr:     true,
			errContains: "invalid email",
		},
		{
			name:        "password too short",
			userName:    "Test User",
			email:       "test@example.com",
			password:    "12345",
			wantErr:     true,
			errContains: "at least 6 characters",
		},
		{
			name:        "password too long",
			userName:    "Test User",
			email:       "test@example.com",
			password:    "a" + string(make([]byte, 73)),
			wantErr:     true,
			errContains: "too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newTestUserRepository()
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}

			uc := NewUserUsecase(mockRepo, logger)
			user, err := uc.Register(context.Background(), tt.userName, tt.email, tt.password)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got success")
				} else if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want substring %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if user == nil {
					t.Errorf("expected a user, got nil")
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	testPasswordHash, _ := bcrypt.GenerateFromPassword([]byte("correctpassword"), bcrypt.DefaultCost)

	tests := []struct {
		name        string
		email       string
		password    string
		setupMock   func(*testUserRepository)
		wantErr     bool
		errContains string
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "correctpassword",
			setupMock: func(m *testUserRepository) {
				m.users["test@example.com"] = &entity.User{
					ID:           1,
					Email:        "test@example.com",
					PasswordHash: string(testPasswordHash),
					IsActive:     true,
				}
			},
			wantErr: false,
		},
		{
			name:        "user not found",
			email:       "nonexistent@example.com",
			password:    "password123",
			wantErr:     true,
			errContains: "invalid email or password", // must not reveal existence
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMock: func(m *testUserRepository) {
				m.users["test@example.com"] = &entity.User{
					ID:           1,
					Email:        "test@example.com",
					PasswordHash: string(testPasswordHash),
					IsActive:     true,
				}
			},
			wantErr:     true,
			errContains: "invalid email or password",
		},
		{
			name:     "disabled account",
			email:    "disabled@example.com",
			password: "correctpassword",
			setupMock: func(m *testUserRepository) {
				m.users["disabled@example.com"] = &entity.User{
					ID:           2,
					Email:        "disabled@example.com",
					PasswordHash: string(testPasswordHash),
					IsActive:     false,
				}
			},
			wantErr:     true,
			errContains: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newTestUserRepository()
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}

			uc := NewUserUsecase(mockRepo, logger)
			user, err := uc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got success")
				} else if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want substring %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if user == nil {
					t.Errorf("expected a user, got nil")
				}
			}
		})
	}
}

func TestPasswordSecurity(t *testing.T) {
	t.Run("hash is not the password", func(t *testing.T) {
		password := "securePassword123"
		hash, err := hashPassword(password)
		if err != nil {
			t.Fatalf("hashPassword failed: %v", err)
		}

		if hash == password {
			t.Error("hash must not equal the plain password")
		}

		if len(hash) < 50 {
			t.Error("unexpected bcrypt hash length")
		}
	})

	t.Run("same password different hashes", func(t *testing.T) {
		password := "testPassword"
		hash1, _ := hashPassword(password)
		hash2, _ := hashPassword(password)

		// bcrypt salts each hash
		if hash1 == hash2 {
			t.Error("hashes of the same password should differ")
		}
	})

	t.Run("verify round trip", func(t *testing.T) {
		password := "correctPassword"
		hash, _ := hashPassword(password)

		if err := verifyPassword(hash, password); err != nil {
			t.Error("correct password failed verification")
		}

		if err := verifyPassword(hash, "wrongPassword"); err == nil {
			t.Error("wrong password passed verification")
		}
	})
}

// helper
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && (s[:len(substr)] == substr || contains(s[1:], substr)))
}
