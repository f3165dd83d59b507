package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carhub/models"
	"carhub/pkg/logger"
)

type mockCarStore struct {
	listByOwner      func(ctx context.Context, userID int) ([]models.Car, error)
	getByID          func(ctx context.Context, id, userID int) (*models.Car, error)
	create           func(ctx context.Context, car *models.Car) error
	update           func(ctx context.Context, car *models.Car) error
	delete           func(ctx context.Context, id, userID int) error
	search           func(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error)
	plateExists      func(ctx context.Context, plate string, excludeID int) (bool, error)
	statistics       func(ctx context.Context, userID int) (*models.CarStatistics, error)
	bulkUpdateStatus func(ctx context.Context, userID int, ids []int, status string) (int, error)
}

func (m *mockCarStore) ListByOwner(ctx context.Context, userID int) ([]models.Car, error) {
	return m.listByOwner(ctx, userID)
}

func (m *mockCarStore) GetByID(ctx context.Context, id, userID int) (*models.Car, error) {
	return m.getByID(ctx, id, userID)
}

func (m *mockCarStore) Create(ctx context.Context, car *models.Car) error {
	return m.create(ctx, car)
}

func (m *mockCarStore) Update(ctx context.Context, car *models.Car) error {
	return m.update(ctx, car)
}

func (m *mockCarStore) Delete(ctx context.Context, id, userID int) error {
	return m.delete(ctx, id, userID)
}

func (m *mockCarStore) Search(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error) {
	return m.search(ctx, userID, filter)
}

func (m *mockCarStore) PlateExists(ctx context.Context, plate string, excludeID int) (bool, error) {
	return m.plateExists(ctx, plate, excludeID)
}

func (m *mockCarStore) Statistics(ctx context.Context, userID int) (*models.CarStatistics, error) {
	return m.statistics(ctx, userID)
}

func (m *mockCarStore) BulkUpdateStatus(ctx context.Context, userID int, ids []int, status string) (int, error) {
	return m.bulkUpdateStatus(ctx, userID, ids, status)
}

func newCarService(store *mockCarStore) *CarService {
	return NewCarService(store, logger.NewNop())
}

func validCreateRequest() models.CreateCarRequest {
	return models.CreateCarRequest{
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2020,
		LicensePlate: "ABC-1234",
		Color:        "Rojo",
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestCreateCarAssignsOwnerFromCaller(t *testing.T) {
	var created *models.Car
	store := &mockCarStore{
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			return false, nil
		},
		create: func(ctx context.Context, car *models.Car) error {
			car.ID = 10
			created = car
			return nil
		},
	}
	svc := newCarService(store)

	car, err := svc.CreateCar(context.Background(), 42, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 42, car.UserID)
	assert.Equal(t, 42, created.UserID)
	assert.Equal(t, models.StatusAvailable, car.Status)
}

func TestCreateCarDuplicatePlate(t *testing.T) {
	store := &mockCarStore{
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			return true, nil
		},
	}
	svc := newCarService(store)

	_, err := svc.CreateCar(context.Background(), 1, validCreateRequest())
	assert.ErrorIs(t, err, models.ErrDuplicateLicensePlate)
}

func TestCreateCarValidation(t *testing.T) {
	svc := newCarService(&mockCarStore{})

	tests := []struct {
		name   string
		mutate func(req *models.CreateCarRequest)
		field  string
	}{
		{"missing brand", func(r *models.CreateCarRequest) { r.Brand = "  " }, "brand"},
		{"missing model", func(r *models.CreateCarRequest) { r.Model = "" }, "model"},
		{"missing plate", func(r *models.CreateCarRequest) { r.LicensePlate = "" }, "license_plate"},
		{"missing color", func(r *models.CreateCarRequest) { r.Color = "" }, "color"},
		{"unknown color", func(r *models.CreateCarRequest) { r.Color = "Chartreuse" }, "color"},
		{"unknown status", func(r *models.CreateCarRequest) { r.Status = "rented" }, "status"},
		{"year below minimum", func(r *models.CreateCarRequest) { r.Year = 1899 }, "year"},
		{"year too far ahead", func(r *models.CreateCarRequest) { r.Year = time.Now().Year() + 2 }, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			_, err := svc.CreateCar(context.Background(), 1, req)
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

func TestCreateCarYearBoundaries(t *testing.T) {
	store := &mockCarStore{
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			return false, nil
		},
		create: func(ctx context.Context, car *models.Car) error { return nil },
	}
	svc := newCarService(store)

	for _, year := range []int{models.MinCarYear, time.Now().Year(), time.Now().Year() + 1} {
		req := validCreateRequest()
		req.Year = year
		_, err := svc.CreateCar(context.Background(), 1, req)
		assert.NoError(t, err, "year %d should be accepted", year)
	}
}

func TestUpdateCarNotFoundIsOpaque(t *testing.T) {
	store := &mockCarStore{
		getByID: func(ctx context.Context, id, userID int) (*models.Car, error) {
			// someone else's car and a missing car look identical
			return nil, models.ErrNotFound
		},
	}
	svc := newCarService(store)

	brand := "Honda"
	_, err := svc.UpdateCar(context.Background(), 7, 1, models.UpdateCarRequest{Brand: &brand})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateCarPartial(t *testing.T) {
	existing := models.Car{
		ID: 3, UserID: 1, Brand: "Toyota", Model: "Corolla",
		Year: 2018, LicensePlate: "ABC-1234", Color: "Rojo",
		Status: models.StatusAvailable,
	}
	var saved *models.Car
	store := &mockCarStore{
		getByID: func(ctx context.Context, id, userID int) (*models.Car, error) {
			c := existing
			return &c, nil
		},
		update: func(ctx context.Context, car *models.Car) error {
			saved = car
			return nil
		},
	}
	svc := newCarService(store)

	status := models.StatusSold
	car, err := svc.UpdateCar(context.Background(), 3, 1, models.UpdateCarRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, car.Status)
	assert.Equal(t, "Toyota", saved.Brand)
	assert.Equal(t, "ABC-1234", saved.LicensePlate)
}

func TestUpdateCarPlateConflict(t *testing.T) {
	store := &mockCarStore{
		getByID: func(ctx context.Context, id, userID int) (*models.Car, error) {
			return &models.Car{ID: 3, UserID: 1, LicensePlate: "OLD-0001", Brand: "Toyota", Model: "Corolla", Year: 2018, Color: "Rojo"}, nil
		},
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			assert.Equal(t, "NEW-0002", plate)
			assert.Equal(t, 3, excludeID)
			return true, nil
		},
	}
	svc := newCarService(store)

	plate := "NEW-0002"
	_, err := svc.UpdateCar(context.Background(), 3, 1, models.UpdateCarRequest{LicensePlate: &plate})
	assert.ErrorIs(t, err, models.ErrDuplicateLicensePlate)
}

func TestUpdateCarSamePlateSkipsConflictCheck(t *testing.T) {
	store := &mockCarStore{
		getByID: func(ctx context.Context, id, userID int) (*models.Car, error) {
			return &models.Car{ID: 3, UserID: 1, LicensePlate: "ABC-1234", Brand: "Toyota", Model: "Corolla", Year: 2018, Color: "Rojo"}, nil
		},
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			t.Fatal("plate lookup should not run when the plate is unchanged")
			return false, nil
		},
		update: func(ctx context.Context, car *models.Car) error { return nil },
	}
	svc := newCarService(store)

	plate := "ABC-1234"
	_, err := svc.UpdateCar(context.Background(), 3, 1, models.UpdateCarRequest{LicensePlate: &plate})
	assert.NoError(t, err)
}

func TestDeleteCarNotIdempotent(t *testing.T) {
	deleted := false
	store := &mockCarStore{
		delete: func(ctx context.Context, id, userID int) error {
			if deleted {
				return models.ErrNotFound
			}
			deleted = true
			return nil
		},
	}
	svc := newCarService(store)

	require.NoError(t, svc.DeleteCar(context.Background(), 5, 1))
	assert.ErrorIs(t, svc.DeleteCar(context.Background(), 5, 1), models.ErrNotFound)
}

func TestSearchCarsRejectsUnknownStatus(t *testing.T) {
	svc := newCarService(&mockCarStore{})

	_, err := svc.SearchCars(context.Background(), 1, models.CarFilter{Status: "parked"})
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestSearchCarsPassesFilterThrough(t *testing.T) {
	var got models.CarFilter
	store := &mockCarStore{
		search: func(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error) {
			got = filter
			return []models.Car{}, nil
		},
	}
	svc := newCarService(store)

	filter := models.CarFilter{Query: "corolla", Status: models.StatusAvailable, Brand: "Toyota", Year: 2020}
	cars, err := svc.SearchCars(context.Background(), 1, filter)
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.Equal(t, filter, got)
}

func TestGetCarsByStatus(t *testing.T) {
	store := &mockCarStore{
		search: func(ctx context.Context, userID int, filter models.CarFilter) ([]models.Car, error) {
			assert.Equal(t, models.StatusSold, filter.Status)
			return []models.Car{{ID: 1, Status: models.StatusSold}}, nil
		},
	}
	svc := newCarService(store)

	cars, err := svc.GetCarsByStatus(context.Background(), 1, models.StatusSold)
	require.NoError(t, err)
	assert.Len(t, cars, 1)

	_, err = svc.GetCarsByStatus(context.Background(), 1, "rented")
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestBulkUpdateStatusReportsPartialCounts(t *testing.T) {
	store := &mockCarStore{
		bulkUpdateStatus: func(ctx context.Context, userID int, ids []int, status string) (int, error) {
			// two of the three ids belong to this user
			return 2, nil
		},
	}
	svc := newCarService(store)

	res, err := svc.BulkUpdateStatus(context.Background(), 1, models.BulkStatusRequest{
		CarIDs: []int{1, 2, 99},
		Status: models.StatusMaintenance,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.RequestedCount)
	assert.Equal(t, 2, res.UpdatedCount)
}

func TestBulkUpdateStatusValidation(t *testing.T) {
	svc := newCarService(&mockCarStore{})

	_, err := svc.BulkUpdateStatus(context.Background(), 1, models.BulkStatusRequest{Status: "rented"})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "car_ids")
	assert.Contains(t, fields, "status")
}

func TestGetStatisticsEmptyGarage(t *testing.T) {
	store := &mockCarStore{
		statistics: func(ctx context.Context, userID int) (*models.CarStatistics, error) {
			return &models.CarStatistics{
				Total: 0,
				ByStatus: map[string]int{
					models.StatusAvailable:   0,
					models.StatusSold:        0,
					models.StatusReserved:    0,
					models.StatusMaintenance: 0,
				},
				ByBrand: map[string]int{},
			}, nil
		},
	}
	svc := newCarService(store)

	stats, err := svc.GetStatistics(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByStatus, len(models.CarStatuses))
	assert.Empty(t, stats.ByBrand)
}

func TestCreateCarStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	store := &mockCarStore{
		plateExists: func(ctx context.Context, plate string, excludeID int) (bool, error) {
			return false, nil
		},
		create: func(ctx context.Context, car *models.Car) error { return boom },
	}
	svc := newCarService(store)

	_, err := svc.CreateCar(context.Background(), 1, validCreateRequest())
	assert.ErrorIs(t, err, boom)
}
