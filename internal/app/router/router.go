package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/api"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/platform/http/handler"
	"auth_backend/internal/platform/http/middleware"
	jwtmw "auth_backend/internal/platform/jwt"
	"auth_backend/internal/platform/ratelimit"
)

// Deps holds what the router needs to serve every route.
type Deps struct {
	Auth         *authhandler.AuthHandler
	Validator    *jwtmw.Validator
	LoginLimiter ratelimit.Limiter
	Ready        handler.Pinger
	Logger       *slog.Logger

	// TrustedProxies が空の場合、X-Forwarded-For は無視され RemoteAddr がクライアントIPになる
	TrustedProxies []string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	r.Use(middleware.RequestID(), middleware.AccessLog(d.Logger), gin.CustomRecovery(recovery))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(d.Ready))

	// 生成コードのラッパーでパスパラメータをバインドする
	w := &api.ServerInterfaceWrapper{
		Handler:      d.Auth,
		ErrorHandler: bindError,
	}

	public := r.Group("/api/auth")
	{
		// 新規ユーザー登録
		public.POST("/register", w.Register)
		// ログイン（JWT 発行）。IP単位でレート制限
		public.POST("/login", ratelimit.Middleware(d.LoginLimiter), w.Login)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	protected := r.Group("/api/auth")
	protected.Use(jwtmw.AuthRequired(d.Validator))
	{
		protected.GET("/users", w.ListUsers)
		protected.PUT("/update-password", w.UpdatePassword)
		protected.DELETE("/users/:username", w.DeleteUser)
	}

	return r, nil
}

func bindError(c *gin.Context, err error, status int) {
	c.JSON(status, api.ErrorResponse{Message: err.Error()})
}

// recovery turns panics into the same opaque 500 body the handlers use.
func recovery(c *gin.Context, recovered any) {
	slog.ErrorContext(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.FullPath())
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
}
