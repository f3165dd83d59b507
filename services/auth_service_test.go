package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carhub/models"
	"carhub/pkg/logger"
	"carhub/utils"
)

type mockUserStore struct {
	create             func(ctx context.Context, user *models.User) error
	findByEmail        func(ctx context.Context, email string) (*models.User, error)
	findByID           func(ctx context.Context, id int) (*models.User, error)
	update             func(ctx context.Context, user *models.User) error
	updatePassword     func(ctx context.Context, userID int, hashedPassword string) error
	updateProfilePhoto func(ctx context.Context, userID int, photoURL string) error
	emailExists        func(ctx context.Context, email string, excludeID int) (bool, error)
	nameExists         func(ctx context.Context, name string, excludeID int) (bool, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.create(ctx, user)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findByEmail(ctx, email)
}

func (m *mockUserStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	return m.findByID(ctx, id)
}

func (m *mockUserStore) Update(ctx context.Context, user *models.User) error {
	return m.update(ctx, user)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	return m.updatePassword(ctx, userID, hashedPassword)
}

func (m *mockUserStore) UpdateProfilePhoto(ctx context.Context, userID int, photoURL string) error {
	return m.updateProfilePhoto(ctx, userID, photoURL)
}

func (m *mockUserStore) EmailExists(ctx context.Context, email string, excludeID int) (bool, error) {
	return m.emailExists(ctx, email, excludeID)
}

func (m *mockUserStore) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	return m.nameExists(ctx, name, excludeID)
}

type recordingMailer struct {
	sentTo []string
	err    error
}

func (m *recordingMailer) SendWelcome(toEmail, name string) error {
	m.sentTo = append(m.sentTo, toEmail)
	return m.err
}

func newAuthService(store *mockUserStore, mailer WelcomeMailer) *AuthService {
	return NewAuthService(store, mailer, logger.NewNop())
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:                 "juanp",
		FirstName:            "Juan",
		LastName:             "Pérez",
		Email:                "juan@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
}

func TestRegisterIssuesTokenAndDefaultsRole(t *testing.T) {
	store := &mockUserStore{
		emailExists: func(ctx context.Context, email string, excludeID int) (bool, error) { return false, nil },
		nameExists:  func(ctx context.Context, name string, excludeID int) (bool, error) { return false, nil },
		create: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			return nil
		},
	}
	mailer := &recordingMailer{}
	svc := newAuthService(store, mailer)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.Equal(t, []string{"juan@example.com"}, mailer.sentTo)

	claims, err := utils.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmailAndName(t *testing.T) {
	store := &mockUserStore{
		emailExists: func(ctx context.Context, email string, excludeID int) (bool, error) { return true, nil },
		nameExists:  func(ctx context.Context, name string, excludeID int) (bool, error) { return true, nil },
	}
	svc := newAuthService(store, nil)

	_, err := svc.Register(context.Background(), registerRequest())
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}

func TestRegisterMailFailureIsNotFatal(t *testing.T) {
	store := &mockUserStore{
		emailExists: func(ctx context.Context, email string, excludeID int) (bool, error) { return false, nil },
		nameExists:  func(ctx context.Context, name string, excludeID int) (bool, error) { return false, nil },
		create: func(ctx context.Context, user *models.User) error {
			user.ID = 2
			return nil
		},
	}
	svc := newAuthService(store, &recordingMailer{err: assert.AnError})

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin(t *testing.T) {
	hashed, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	store := &mockUserStore{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			if email != "juan@example.com" {
				return nil, models.ErrNotFound
			}
			return &models.User{ID: 1, Email: email, Password: hashed, Role: models.RoleUser}, nil
		},
	}
	svc := newAuthService(store, nil)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "juan@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 1, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: "juan@example.com", Password: "nope"})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestUpdateProfilePartialMerge(t *testing.T) {
	var saved *models.User
	store := &mockUserStore{
		findByID: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: 1, Name: "juanp", Email: "juan@example.com", FirstName: "Juan", LastName: "Pérez"}, nil
		},
		nameExists: func(ctx context.Context, name string, excludeID int) (bool, error) { return false, nil },
		update: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := newAuthService(store, nil)

	phone := "+34 600 000 000"
	birthDate := "1990-05-20"
	user, err := svc.UpdateProfile(context.Background(), 1, models.UpdateProfileRequest{
		Phone:     &phone,
		BirthDate: &birthDate,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
	require.NotNil(t, saved.BirthDate)
	assert.Equal(t, "1990-05-20", saved.BirthDate.Format("2006-01-02"))
	assert.Equal(t, "juan@example.com", saved.Email)
}

func TestUpdateProfileRejectsBadBirthDate(t *testing.T) {
	store := &mockUserStore{
		findByID: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: 1}, nil
		},
	}
	svc := newAuthService(store, nil)

	birthDate := "20/05/1990"
	_, err := svc.UpdateProfile(context.Background(), 1, models.UpdateProfileRequest{BirthDate: &birthDate})
	assert.Contains(t, fieldErrors(t, err), "birth_date")
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	store := &mockUserStore{
		findByID: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: 1, Email: "juan@example.com"}, nil
		},
		emailExists: func(ctx context.Context, email string, excludeID int) (bool, error) {
			assert.Equal(t, 1, excludeID)
			return true, nil
		},
	}
	svc := newAuthService(store, nil)

	email := "taken@example.com"
	_, err := svc.UpdateProfile(context.Background(), 1, models.UpdateProfileRequest{Email: &email})
	assert.Contains(t, fieldErrors(t, err), "email")
}

func TestChangePassword(t *testing.T) {
	hashed, err := utils.HashPassword("oldpass1")
	require.NoError(t, err)

	var storedHash string
	store := &mockUserStore{
		findByID: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: 1, Password: hashed}, nil
		},
		updatePassword: func(ctx context.Context, userID int, hashedPassword string) error {
			storedHash = hashedPassword
			return nil
		},
	}
	svc := newAuthService(store, nil)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "newpass1",
		})
		assert.Contains(t, fieldErrors(t, err), "current_password")
	})

	t.Run("success", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
			CurrentPassword: "oldpass1",
			NewPassword:     "newpass1",
		})
		require.NoError(t, err)

		valid, err := utils.VerifyPassword(storedHash, "newpass1")
		require.NoError(t, err)
		assert.True(t, valid)
	})
}

func TestRefreshToken(t *testing.T) {
	store := &mockUserStore{
		findByID: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: 9, Email: "juan@example.com", Role: models.RoleAdmin}, nil
		},
	}
	svc := newAuthService(store, nil)

	resp, err := svc.RefreshToken(context.Background(), 9)
	require.NoError(t, err)

	claims, err := utils.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 9, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
