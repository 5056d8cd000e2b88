// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/api"
	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
	jwtmw "auth_backend/internal/platform/jwt"
)

const (
	msgRegistered      = "User registered successfully"
	msgPasswordUpdated = "Password updated successfully"
	msgDeleted         = "User deleted successfully"
	msgInvalidBody     = "invalid request body"
	msgForbidden       = "token does not grant access to this user"
	msgInternal        = "internal server error"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// ListUsers は登録済みユーザー全員のプロフィールを返します。
	ListUsers(ctx context.Context) ([]entity.Profile, error)
	// Register は新規ユーザーを登録します。トークンは発行しません。
	Register(ctx context.Context, username, email, password string) (entity.Profile, error)
	// Login はユーザーを認証し、成功時にプロフィールと署名済みトークンを返します。
	Login(ctx context.Context, username, password string) (*usecase.LoginResult, error)
	// UpdatePassword は既存ユーザーのパスワードを置き換えます。
	UpdatePassword(ctx context.Context, username, newPassword string) error
	// Delete はユーザーを削除します。
	Delete(ctx context.Context, username string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// 生成された api.ServerInterface を実装します。
type AuthHandler struct {
	auth AuthUsecase
}

var _ api.ServerInterface = (*AuthHandler)(nil)

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// ListUsers は GET /api/auth/users を処理します。
func (h *AuthHandler) ListUsers(c *gin.Context) {
	profiles, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]api.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUserProfile(p))
	}
	c.JSON(http.StatusOK, out)
}

// Register は POST /api/auth/register を処理します。
// - リクエストJSONのバインド失敗時は400を返却
// - 入力不備は400、ユーザー名・メール重複は409を返却
// - 成功時は200を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgRegistered})
}

// Login は POST /api/auth/login を処理します。
// 認証失敗の理由に関わらず同じ401レスポンスを返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{User: api.AuthenticatedUser{
		Id:       int64(res.Profile.ID),
		Username: res.Profile.Username,
		Email:    res.Profile.Email,
		Token:    res.Token,
	}})
}

// UpdatePassword は PUT /api/auth/update-password を処理します。
// トークンのsubjectと対象ユーザー名が一致しない場合は403を返します。
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req api.UpdatePasswordJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	if !h.authorize(c, req.Username) {
		return
	}

	if err := h.auth.UpdatePassword(c.Request.Context(), req.Username, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgPasswordUpdated})
}

// DeleteUser は DELETE /api/auth/users/{username} を処理します。
func (h *AuthHandler) DeleteUser(c *gin.Context, username string) {
	if !h.authorize(c, username) {
		return
	}

	if err := h.auth.Delete(c.Request.Context(), username); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgDeleted})
}

// authorize checks that the bearer token was issued to username.
// Blank usernames pass through so the usecase reports them as validation errors.
func (h *AuthHandler) authorize(c *gin.Context, username string) bool {
	claims, ok := jwtmw.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid token"})
		return false
	}
	if username != "" && claims.Subject != username {
		slog.WarnContext(c.Request.Context(), "token subject mismatch",
			"subject", claims.Subject, "target", username, "path", c.FullPath())
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: msgForbidden})
		return false
	}
	return true
}

// fail maps an outcome kind to its HTTP status. Internal errors never leak details.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, api.ErrorResponse{Message: msgInternal})
		return
	}
	c.JSON(status, api.ErrorResponse{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func toUserProfile(p entity.Profile) api.UserProfile {
	return api.UserProfile{
		Id:       int64(p.ID),
		Username: p.Username,
		Email:    p.Email,
	}
}
