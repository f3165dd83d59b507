package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"carhub/models"
	"carhub/services"

	"github.com/gin-gonic/gin"
)

type CarController struct {
	carService *services.CarService
}

func NewCarController(carService *services.CarService) *CarController {
	return &CarController{carService: carService}
}

// ListCars godoc
// @Summary List cars
// @Description List all cars owned by the authenticated user
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cars [get]
func (ctrl *CarController) ListCars(c *gin.Context) {
	cars, err := ctrl.carService.ListCars(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: cars, Message: "Cars retrieved"})
}

// GetCar godoc
// @Summary Get a car
// @Description Get a single car owned by the authenticated user
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /cars/{id} [get]
func (ctrl *CarController) GetCar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid car ID"})
		return
	}

	car, err := ctrl.carService.GetCar(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: car, Message: "Car retrieved"})
}

// CreateCar godoc
// @Summary Create a car
// @Description Register a new car for the authenticated user
// @Tags Cars
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateCarRequest true "Car payload"
// @Success 201 {object} models.Response
// @Failure 422 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /cars [post]
func (ctrl *CarController) CreateCar(c *gin.Context) {
	var req models.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	car, err := ctrl.carService.CreateCar(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{Data: car, Message: "Car created"})
}

// UpdateCar godoc
// @Summary Update a car
// @Description Partially update a car owned by the authenticated user
// @Tags Cars
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Car ID"
// @Param request body models.UpdateCarRequest true "Fields to update"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /cars/{id} [put]
func (ctrl *CarController) UpdateCar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid car ID"})
		return
	}

	var req models.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	car, err := ctrl.carService.UpdateCar(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: car, Message: "Car updated"})
}

// DeleteCar godoc
// @Summary Delete a car
// @Description Delete a car owned by the authenticated user
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /cars/{id} [delete]
func (ctrl *CarController) DeleteCar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid car ID"})
		return
	}

	if err := ctrl.carService.DeleteCar(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Message: "Car deleted"})
}

// SearchCars godoc
// @Summary Search cars
// @Description Search the authenticated user's cars; all supplied filters combine with AND
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Param q query string false "Free text over brand, model and license plate"
// @Param status query string false "Status filter" Enums(available, sold, reserved, maintenance)
// @Param brand query string false "Exact brand"
// @Param color query string false "Exact color"
// @Param year query int false "Exact year"
// @Success 200 {object} models.Response
// @Router /cars/search [get]
func (ctrl *CarController) SearchCars(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	filter := models.CarFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: strings.TrimSpace(c.Query("status")),
		Brand:  strings.TrimSpace(c.Query("brand")),
		Color:  strings.TrimSpace(c.Query("color")),
		Year:   year,
	}

	cars, err := ctrl.carService.SearchCars(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: cars, Message: "Search results"})
}

// GetCarsByStatus godoc
// @Summary Get cars by status
// @Description List the authenticated user's cars in one status
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Param status path string true "Status" Enums(available, sold, reserved, maintenance)
// @Success 200 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /cars/status/{status} [get]
func (ctrl *CarController) GetCarsByStatus(c *gin.Context) {
	cars, err := ctrl.carService.GetCarsByStatus(c.Request.Context(), currentUserID(c), c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: cars, Message: "Cars retrieved"})
}

// GetStatistics godoc
// @Summary Car statistics
// @Description Aggregated counts over the authenticated user's cars
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cars/statistics [get]
func (ctrl *CarController) GetStatistics(c *gin.Context) {
	stats, err := ctrl.carService.GetStatistics(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: stats, Message: "Statistics retrieved"})
}

// BulkUpdateStatus godoc
// @Summary Bulk status update
// @Description Update the status of several cars; ids not owned by the caller are skipped
// @Tags Cars
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.BulkStatusRequest true "Car ids and target status"
// @Success 200 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /cars/bulk-status [patch]
func (ctrl *CarController) BulkUpdateStatus(c *gin.Context) {
	var req models.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	result, err := ctrl.carService.BulkUpdateStatus(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: result, Message: "Status updated"})
}
