package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/bind"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/logging"
	authsvc "news-aggregator/internal/service/auth"
)

// Accounts is the account service used by the handlers.
type Accounts interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*authsvc.Session, error)
	Login(ctx context.Context, email, password string) (*authsvc.Session, error)
	Logout(ctx context.Context, claims *authsvc.Claims) error
	Me(ctx context.Context, userID int64) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID int64, in authsvc.ProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID int64, in authsvc.ChangePasswordInput) error
}

type Handler struct {
	Svc    Accounts
	Logger *slog.Logger
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	l := h.Logger
	if l == nil {
		l = slog.Default()
	}
	return logging.WithRequestID(r.Context(), l)
}

// observe records the outcome of one account operation.
func observe(op string, start time.Time, err *error) {
	result := "success"
	if *err != nil {
		result = "failure"
	}
	RecordAuthRequest(op, result)
	RecordAuthDuration(op, time.Since(start).Seconds())
}

// fail maps service errors to responses.
func (h Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.ValidationFailed(w, []respond.FieldError{{Field: verr.Field, Message: verr.Message}})
	case errors.Is(err, authsvc.ErrEmailTaken):
		respond.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrIncorrectPassword):
		respond.Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, authsvc.ErrPasswordMismatch):
		respond.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authsvc.ErrUserNotFound):
		respond.Fail(w, http.StatusNotFound, "User not found")
	default:
		h.logger(r).Error(op+" failed", slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// Register
// @Summary      ユーザー登録
// @Description  アカウントを作成し JWT を発行します
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerRequest true "登録情報"
// @Success      201 {object} respond.Envelope{data=SessionDTO}
// @Failure      400 {object} respond.Envelope "Validation failed"
// @Failure      409 {object} respond.Envelope "User with this email already exists"
// @Router       /auth/register [post]
func (h Handler) Register(w http.ResponseWriter, r *http.Request) {
	var err error
	defer observe("register", time.Now(), &err)

	var req registerRequest
	if !bind.JSON(w, r, &req) {
		err = errors.New("bad request")
		return
	}
	sess, err := h.Svc.Register(r.Context(), authsvc.RegisterInput{
		Email: req.Email, Password: req.Password, Name: req.Name,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}
	h.logger(r).Info("user registered", slog.Int64("user_id", sess.User.ID))
	respond.OK(w, http.StatusCreated, "User registered successfully",
		SessionDTO{User: toUserDTO(sess.User), Token: sess.Token})
}

// Login
// @Summary      ログイン
// @Description  メールアドレスとパスワードで認証し JWT を発行します
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "ログイン情報"
// @Success      200 {object} respond.Envelope{data=SessionDTO}
// @Failure      400 {object} respond.Envelope
// @Failure      401 {object} respond.Envelope "Invalid email or password"
// @Router       /auth/login [post]
func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	var err error
	defer observe("login", time.Now(), &err)

	var req loginRequest
	if !bind.JSON(w, r, &req) {
		err = errors.New("bad request")
		return
	}
	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			h.logger(r).Warn("login failed", slog.String("reason", "invalid_credentials"))
		}
		h.fail(w, r, "login", err)
		return
	}
	respond.OK(w, http.StatusOK, "Login successful",
		SessionDTO{User: toUserDTO(sess.User), Token: sess.Token})
}

// Logout
// @Summary      ログアウト
// @Description  現在のトークンを失効させます
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope
// @Failure      401 {object} respond.Envelope
// @Router       /auth/logout [post]
func (h Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var err error
	defer observe("logout", time.Now(), &err)

	p := PrincipalFrom(r.Context())
	if err = h.Svc.Logout(r.Context(), p.Claims); err != nil {
		h.fail(w, r, "logout", err)
		return
	}
	respond.OK(w, http.StatusOK, "Logged out successfully", nil)
}

// Me
// @Summary      ログインユーザー取得
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=UserDTO}
// @Failure      401 {object} respond.Envelope
// @Router       /auth/me [get]
func (h Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Me(r.Context(), PrincipalFrom(r.Context()).UserID)
	if err != nil {
		h.fail(w, r, "me", err)
		return
	}
	respond.OK(w, http.StatusOK, "", toUserDTO(u))
}

// UpdateProfile
// @Summary      プロフィール更新
// @Description  指定されたフィールド（name, email）のみ更新します
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body profileRequest true "更新内容"
// @Success      200 {object} respond.Envelope{data=UserDTO}
// @Failure      400 {object} respond.Envelope
// @Failure      409 {object} respond.Envelope "User with this email already exists"
// @Router       /auth/profile [put]
func (h Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var err error
	defer observe("update_profile", time.Now(), &err)

	var req profileRequest
	if !bind.JSON(w, r, &req) {
		err = errors.New("bad request")
		return
	}
	u, err := h.Svc.UpdateProfile(r.Context(), PrincipalFrom(r.Context()).UserID,
		authsvc.ProfileInput{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	respond.OK(w, http.StatusOK, "Profile updated successfully", toUserDTO(u))
}

// ChangePassword
// @Summary      パスワード変更
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body changePasswordRequest true "現在と新しいパスワード"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.Envelope
// @Failure      401 {object} respond.Envelope "Current password is incorrect"
// @Router       /auth/change-password [put]
func (h Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var err error
	defer observe("change_password", time.Now(), &err)

	var req changePasswordRequest
	if !bind.JSON(w, r, &req) {
		err = errors.New("bad request")
		return
	}
	err = h.Svc.ChangePassword(r.Context(), PrincipalFrom(r.Context()).UserID, authsvc.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.fail(w, r, "change password", err)
		return
	}
	respond.OK(w, http.StatusOK, "Password changed successfully", nil)
}
