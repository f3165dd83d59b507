package controllers

import (
	"net/http"
	"path/filepath"
	"time"

	"carhub/config"
	"carhub/libs"
	"carhub/middleware"
	"carhub/models"
	"carhub/services"
	"carhub/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
	denylist    *middleware.TokenDenylist
}

func NewAuthController(authService *services.AuthService, denylist *middleware.TokenDenylist) *AuthController {
	return &AuthController{authService: authService, denylist: denylist}
}

// Register godoc
// @Summary Register new user
// @Description Create a user account and return a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{Data: result, Message: "Registration successful"})
}

// Login godoc
// @Summary User login
// @Description Login with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: result, Message: "Login successful"})
}

// Logout godoc
// @Summary User logout
// @Description Revoke the current bearer token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.revokeCurrentToken(c)
	c.JSON(http.StatusOK, models.Response{Message: "Successfully logged out"})
}

// Refresh godoc
// @Summary Refresh token
// @Description Issue a fresh token and revoke the current one
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	result, err := ctrl.authService.RefreshToken(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	ctrl.revokeCurrentToken(c)
	c.JSON(http.StatusOK, models.Response{Data: result, Message: "Token refreshed"})
}

// Me godoc
// @Summary Current user
// @Description Resolve the authenticated user from the bearer token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/me [post]
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.authService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: user})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Partially update the authenticated user's profile
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /auth/profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Data: user, Message: "Profile updated"})
}

// ChangePassword godoc
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password Request"
// @Success 200 {object} models.Response
// @Failure 422 {object} models.Response
// @Router /auth/change-password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), currentUserID(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Message: "Password changed"})
}

// UploadPhoto godoc
// @Summary Upload profile photo
// @Description Upload the authenticated user's profile photo
// @Tags Authentication
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param profile_photo formData file true "Photo file"
// @Success 200 {object} models.Response
// @Router /auth/upload-photo [post]
func (ctrl *AuthController) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("profile_photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Photo file required"})
		return
	}

	photoURL, err := utils.UploadFile(c, file, "profiles")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	if libs.Enabled() {
		localPath := filepath.Join(config.AppConfig.UploadDir, photoURL)
		hostedURL, err := libs.UploadToCloudinary(localPath)
		if err == nil {
			utils.DeleteFile(photoURL)
			photoURL = hostedURL
		}
	}

	if err := ctrl.authService.UpdateProfilePhoto(c.Request.Context(), currentUserID(c), photoURL); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Data:    gin.H{"profile_photo": photoURL},
		Message: "Photo updated",
	})
}

func (ctrl *AuthController) revokeCurrentToken(c *gin.Context) {
	jti := c.GetString("token_jti")
	ttl, ok := c.Get("token_ttl")
	if jti == "" || !ok {
		return
	}
	if d, isDuration := ttl.(time.Duration); isDuration {
		ctrl.denylist.Revoke(c.Request.Context(), jti, d)
	}
}
