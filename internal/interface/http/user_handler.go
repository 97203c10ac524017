package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type UserHandler struct {
	Svc     *application.UserService
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, cookies *helpers.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Cookies: cookies}
}

type registerRequest struct {
	Username string `form:"username" binding:"omitempty,username"`
	Email    string `form:"email" binding:"omitempty,email"`
	Fullname string `form:"fullname"`
	Password string `form:"password" binding:"omitempty,pwd"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

type updateAccountRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type authPayload struct {
	User *entity.User `json:"user"`
	application.TokenPair
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	avatar, err := formFile(c, "avatar")
	if err != nil {
		_ = c.Error(err)
		return
	}
	cover, err := formFile(c, "coverImage")
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Fullname:   req.Fullname,
		Password:   req.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, authPayload{User: u, TokenPair: pair}, "User logged in successfully",
		gin.H{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), actor(c)); err != nil {
		_ = c.Error(err)
		return
	}
	h.Cookies.Clear(c)
	response.OK(c, gin.H{}, "User logged out successfully")
}

// RefreshToken accepts the refresh token from its cookie or the JSON body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshCookie)
	if token == "" && c.Request.ContentLength != 0 {
		var req refreshRequest
		if !bind(c, &req) {
			return
		}
		token = req.RefreshToken
	}
	u, pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, authPayload{User: u, TokenPair: pair}, "Access token refreshed",
		gin.H{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	u, err := h.Svc.CurrentUser(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, u, "Current user fetched successfully")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), actor(c), req.OldPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "Password changed successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.UpdateAccount(c.Request.Context(), actor(c), req.Fullname, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, u, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	f, err := formFile(c, "avatar")
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.UpdateAvatar(c.Request.Context(), actor(c), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, u, "Avatar image updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	f, err := formFile(c, "coverImage")
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.UpdateCoverImage(c.Request.Context(), actor(c), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, u, "Cover image updated successfully")
}

func (h *UserHandler) ChannelProfile(c *gin.Context) {
	p, err := h.Svc.ChannelProfile(c.Request.Context(), c.Param("username"), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, p, "User channel fetched successfully")
}

func (h *UserHandler) WatchHistory(c *gin.Context) {
	history, err := h.Svc.WatchHistory(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, history, "Watch history fetched successfully")
}
