package controllers

import (
	"errors"

	"booknest/models"
	"booknest/repositories"
	"booknest/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, token, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(400, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to register"})
		return
	}

	c.JSON(201, gin.H{
		"success": true,
		"message": "Registration successful",
		"data":    gin.H{"user": user, "token": token},
	})
}

// Login godoc
// @Summary Login
// @Description Login with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, token, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGoogleAccount):
			c.JSON(400, gin.H{"success": false, "message": "This account uses Google sign-in. Please continue with Google."})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(401, gin.H{"success": false, "message": "Invalid email or password"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to login"})
		}
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Login successful",
		"data":    gin.H{"user": user, "token": token},
	})
}

// GoogleLogin godoc
// @Summary Login with Google
// @Description Login or register using a Google ID token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.GoogleLoginRequest true "Google Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/google [post]
func (ctrl *AuthController) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, token, err := ctrl.auth.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(401, gin.H{"success": false, "message": "Google sign-in failed"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to login"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Login successful",
		"data":    gin.H{"user": user, "token": token},
	})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Send a password reset link to the given email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Forgot Password Request"
// @Success 200 {object} models.Response
// @Router /auth/forgot-password [post]
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to process request"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Set a new password using a reset token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			c.JSON(400, gin.H{"success": false, "message": "Reset token is invalid or expired"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to reset password"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password reset successful"})
}

// ChangePassword godoc
// @Summary Change password
// @Description Change the current user's password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /profile/change-password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			c.JSON(400, gin.H{"success": false, "message": "Current password is incorrect"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to change password"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password changed successfully"})
}

// GetProfile godoc
// @Summary Get profile
// @Description Get the current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := ctrl.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to load profile"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Profile retrieved", "data": user})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Update the current user's name, phone or address
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	user, err := ctrl.auth.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Profile updated", "data": user})
}
