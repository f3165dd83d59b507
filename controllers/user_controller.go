package controllers

import (
	"net/http"
	"strconv"

	"carhub/models"
	"carhub/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetAllUsers godoc
// @Summary List users
// @Description Paginated user listing with car counts (admin only)
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginatedResponse
// @Router /users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, meta, err := ctrl.userService.GetAllUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PaginatedResponse{
		Data:    users,
		Message: "Users retrieved",
		Meta:    meta,
	})
}

// GetStatistics godoc
// @Summary User statistics
// @Description Aggregated user and fleet counts (admin only)
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /users/statistics [get]
func (ctrl *UserController) GetStatistics(c *gin.Context) {
	stats, err := ctrl.userService.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: stats, Message: "Statistics retrieved"})
}

// GetUserByID godoc
// @Summary Get a user
// @Description Get one user by id (admin only)
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{id} [get]
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid user ID"})
		return
	}

	user, err := ctrl.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: user, Message: "User retrieved"})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partially update a user's profile or role (admin only)
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /users/{id} [put]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid user ID"})
		return
	}

	var req models.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	user, err := ctrl.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: user, Message: "User updated"})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Delete a user and all of their cars (admin only)
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid user ID"})
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Message: "User deleted"})
}
