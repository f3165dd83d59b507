package services

import (
	"context"
	"fmt"
	"strings"

	"carhub/models"
	"carhub/pkg/logger"
)

// CarStore is the persistence contract the service needs. Every query is
// scoped by the owner id so ownership checks live in one place.
type CarStore interface {
	ListByOwner(ctx context.Context, userID int) ([]models.Car, error)
	GetByID(ctx context.Context, id, userID int) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id, userID int) error
	Search(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error)
	PlateExists(ctx context.Context, plate string, excludeID int) (bool, error)
	Statistics(ctx context.Context, userID int) (*models.CarStatistics, error)
	BulkUpdateStatus(ctx context.Context, userID int, ids []int, status string) (int, error)
}

type CarService struct {
	cars CarStore
	log  logger.ILogger
}

func NewCarService(cars CarStore, log logger.ILogger) *CarService {
	return &CarService{cars: cars, log: log}
}

func (s *CarService) ListCars(ctx context.Context, userID int) ([]models.Car, error) {
	return s.cars.ListByOwner(ctx, userID)
}

func (s *CarService) GetCar(ctx context.Context, id, userID int) (*models.Car, error) {
	return s.cars.GetByID(ctx, id, userID)
}

// CreateCar validates the full payload and persists the car with the
// authenticated user as owner. Any owner id in the request body is ignored.
func (s *CarService) CreateCar(ctx context.Context, userID int, req models.CreateCarRequest) (*models.Car, error) {
	if err := validateCreateCar(req); err != nil {
		return nil, err
	}

	plate := strings.TrimSpace(req.LicensePlate)
	taken, err := s.cars.PlateExists(ctx, plate, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrDuplicateLicensePlate
	}

	status := req.Status
	if status == "" {
		status = models.StatusAvailable
	}

	car := &models.Car{
		UserID:       userID,
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		LicensePlate: plate,
		Color:        req.Color,
		PhotoURL:     req.PhotoURL,
		Description:  req.Description,
		Status:       status,
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}

	s.log.Info("car created", logger.Int("car_id", car.ID), logger.Int("user_id", userID))
	return car, nil
}

// UpdateCar applies a partial update. Only supplied fields are validated,
// which keeps single-field mutations like status changes cheap.
func (s *CarService) UpdateCar(ctx context.Context, id, userID int, req models.UpdateCarRequest) (*models.Car, error) {
	car, err := s.cars.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := validateUpdateCar(req); err != nil {
		return nil, err
	}

	if req.LicensePlate != nil {
		plate := strings.TrimSpace(*req.LicensePlate)
		if plate != car.LicensePlate {
			taken, err := s.cars.PlateExists(ctx, plate, car.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, models.ErrDuplicateLicensePlate
			}
		}
		car.LicensePlate = plate
	}
	if req.Brand != nil {
		car.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		car.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Color != nil {
		car.Color = *req.Color
	}
	if req.PhotoURL != nil {
		car.PhotoURL = *req.PhotoURL
	}
	if req.Description != nil {
		car.Description = *req.Description
	}
	if req.Status != nil {
		car.Status = *req.Status
	}

	if err := s.cars.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteCar is deliberately not idempotent: deleting an id that is already
// gone reports NotFound.
func (s *CarService) DeleteCar(ctx context.Context, id, userID int) error {
	return s.cars.Delete(ctx, id, userID)
}

func (s *CarService) SearchCars(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error) {
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		verr := models.NewValidationError()
		verr.Add("status", statusMessage())
		return nil, verr
	}
	return s.cars.Search(ctx, userID, filter)
}

func (s *CarService) GetCarsByStatus(ctx context.Context, userID int, status string) ([]models.Car, error) {
	if !models.IsValidStatus(status) {
		verr := models.NewValidationError()
		verr.Add("status", statusMessage())
		return nil, verr
	}
	return s.cars.Search(ctx, userID, models.CarFilter{Status: status})
}

func (s *CarService) GetStatistics(ctx context.Context, userID int) (*models.CarStatistics, error) {
	return s.cars.Statistics(ctx, userID)
}

// BulkUpdateStatus moves every requested car the user owns to the target
// status. Ids owned by someone else or missing entirely are skipped, and the
// result reports how many rows actually changed.
func (s *CarService) BulkUpdateStatus(ctx context.Context, userID int, req models.BulkStatusRequest) (*models.BulkStatusResult, error) {
	verr := models.NewValidationError()
	if len(req.CarIDs) == 0 {
		verr.Add("car_ids", "at least one car id is required")
	}
	if !models.IsValidStatus(req.Status) {
		verr.Add("status", statusMessage())
	}
	if verr.HasErrors() {
		return nil, verr
	}

	updated, err := s.cars.BulkUpdateStatus(ctx, userID, req.CarIDs, req.Status)
	if err != nil {
		return nil, err
	}

	s.log.Info("bulk status update",
		logger.Int("user_id", userID),
		logger.Int("requested", len(req.CarIDs)),
		logger.Int("updated", updated),
	)
	return &models.BulkStatusResult{
		RequestedCount: len(req.CarIDs),
		UpdatedCount:   updated,
	}, nil
}

func validateCreateCar(req models.CreateCarRequest) error {
	verr := models.NewValidationError()

	if strings.TrimSpace(req.Brand) == "" {
		verr.Add("brand", "brand is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		verr.Add("model", "model is required")
	}
	validateYear(verr, req.Year)
	if strings.TrimSpace(req.LicensePlate) == "" {
		verr.Add("license_plate", "license plate is required")
	}
	if req.Color == "" {
		verr.Add("color", "color is required")
	} else if !models.IsValidColor(req.Color) {
		verr.Add("color", "color must be one of the allowed palette")
	}
	if req.Status != "" && !models.IsValidStatus(req.Status) {
		verr.Add("status", statusMessage())
	}

	return verr.OrNil()
}

func validateUpdateCar(req models.UpdateCarRequest) error {
	verr := models.NewValidationError()

	if req.Brand != nil && strings.TrimSpace(*req.Brand) == "" {
		verr.Add("brand", "brand cannot be empty")
	}
	if req.Model != nil && strings.TrimSpace(*req.Model) == "" {
		verr.Add("model", "model cannot be empty")
	}
	if req.Year != nil {
		validateYear(verr, *req.Year)
	}
	if req.LicensePlate != nil && strings.TrimSpace(*req.LicensePlate) == "" {
		verr.Add("license_plate", "license plate cannot be empty")
	}
	if req.Color != nil && !models.IsValidColor(*req.Color) {
		verr.Add("color", "color must be one of the allowed palette")
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		verr.Add("status", statusMessage())
	}

	return verr.OrNil()
}

func validateYear(verr *models.ValidationError, year int) {
	if year < models.MinCarYear || year > models.MaxCarYear() {
		verr.Add("year", fmt.Sprintf("year must be between %d and %d", models.MinCarYear, models.MaxCarYear()))
	}
}

func statusMessage() string {
	return "status must be one of: " + strings.Join(models.CarStatuses, ", ")
}
