package services

import (
	"context"
	"strings"
	"time"

	"carhub/models"
	"carhub/pkg/logger"
	"carhub/utils"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int, hashedPassword string) error
	UpdateProfilePhoto(ctx context.Context, userID int, photoURL string) error
	EmailExists(ctx context.Context, email string, excludeID int) (bool, error)
	NameExists(ctx context.Context, name string, excludeID int) (bool, error)
}

// WelcomeMailer is optional; a nil mailer disables outbound mail.
type WelcomeMailer interface {
	SendWelcome(toEmail, name string) error
}

type AuthService struct {
	users  UserStore
	mailer WelcomeMailer
	log    logger.ILogger
}

func NewAuthService(users UserStore, mailer WelcomeMailer, log logger.ILogger) *AuthService {
	return &AuthService{users: users, mailer: mailer, log: log}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	verr := models.NewValidationError()

	emailTaken, err := s.users.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		verr.Add("email", "email already registered")
	}

	nameTaken, err := s.users.NameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if nameTaken {
		verr.Add("name", "username already taken")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashedPassword,
		Role:      models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.FirstName); err != nil {
			s.log.Warning("failed to send welcome email", logger.String("email", user.Email), logger.Error(err))
		}
	}

	s.log.Info("user registered", logger.Int("user_id", user.ID))
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, models.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// RefreshToken issues a fresh token for the already-authenticated user.
// Denylisting the old jti is the middleware layer's concern.
func (s *AuthService) RefreshToken(ctx context.Context, userID int) (*models.LoginResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	verr := models.NewValidationError()

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.EmailExists(ctx, *req.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("email", "email already registered")
		} else {
			user.Email = *req.Email
		}
	}
	if req.Name != nil && *req.Name != user.Name {
		taken, err := s.users.NameExists(ctx, *req.Name, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("name", "username already taken")
		} else {
			user.Name = *req.Name
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		birthDate, ok := parseBirthDate(*req.BirthDate)
		if !ok {
			verr.Add("birth_date", "birth date must be in YYYY-MM-DD format")
		} else {
			user.BirthDate = birthDate
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(user.Password, req.CurrentPassword)
	if err != nil || !valid {
		verr := models.NewValidationError()
		verr.Add("current_password", "current password is incorrect")
		return verr
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hashedPassword)
}

func (s *AuthService) UpdateProfilePhoto(ctx context.Context, userID int, photoURL string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.ProfilePhoto != "" && !strings.HasPrefix(user.ProfilePhoto, "http") {
		utils.DeleteFile(user.ProfilePhoto)
	}

	return s.users.UpdateProfilePhoto(ctx, userID, photoURL)
}

func parseBirthDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
