package services

import (
	"context"
	"math"
	"strings"

	"carhub/models"
	"carhub/pkg/logger"
	"carhub/utils"
)

type AdminUserStore interface {
	FindAll(ctx context.Context, page, limit int) ([]models.UserWithCarCount, int, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int) error
	EmailExists(ctx context.Context, email string, excludeID int) (bool, error)
	NameExists(ctx context.Context, name string, excludeID int) (bool, error)
	Statistics(ctx context.Context) (*models.UserStatistics, error)
}

type UserService struct {
	users AdminUserStore
	log   logger.ILogger
}

func NewUserService(users AdminUserStore, log logger.ILogger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) GetAllUsers(ctx context.Context, page, limit int) ([]models.UserWithCarCount, models.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, totalItems, err := s.users.FindAll(ctx, page, limit)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	meta := models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: int(math.Ceil(float64(totalItems) / float64(limit))),
	}
	return users, meta, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetStatistics(ctx context.Context) (*models.UserStatistics, error) {
	return s.users.Statistics(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req models.AdminUpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := models.NewValidationError()

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.EmailExists(ctx, *req.Email, id)
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
		taken, err := s.users.NameExists(ctx, *req.Name, id)
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
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			verr.Add("role", "role must be either user or admin")
		} else {
			user.Role = *req.Role
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

// DeleteUser removes the user and, through the cascade, every car they own.
func (s *UserService) DeleteUser(ctx context.Context, id, actingAdminID int) error {
	if id == actingAdminID {
		return models.ErrSelfDelete
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.ProfilePhoto != "" && !strings.HasPrefix(user.ProfilePhoto, "http") {
		utils.DeleteFile(user.ProfilePhoto)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info("user deleted by admin", logger.Int("user_id", id), logger.Int("admin_id", actingAdminID))
	return nil
}
