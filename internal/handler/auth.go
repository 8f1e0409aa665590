package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cradoe/memberreg/internal/config"
	"github.com/cradoe/memberreg/internal/context"
	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/request"
	"github.com/cradoe/memberreg/internal/response"
	"github.com/cradoe/memberreg/internal/validator"

	"github.com/cradoe/gopass"
	"github.com/pascaldekloe/jwt"
)

// maxFailedLogins is how many wrong passwords in a row lock an admin account
const maxFailedLogins = 3

var ErrAdminEmailTaken = errors.New("an admin with this email already exists")

type AuthHandler struct {
	AdminRepo    repository.AdminRepository
	ActivityRepo repository.ActivityRepository
	Helper       *helper.HelperRepository
	Config       *config.Config
	ErrHandler   *errHandler.ErrorHandler
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		AdminRepo:    handler.AdminRepo,
		ActivityRepo: handler.ActivityRepo,
		Helper:       handler.Helper,
		Config:       handler.Config,
		ErrHandler:   handler.ErrHandler,
	}
}

func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(validator.NotBlank(input.Password), "Password is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	admin, found, err := h.AdminRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.InvalidCredentials(w, r)
		return
	}

	adminID := strconv.FormatInt(admin.ID, 10)

	if admin.Status != repository.AdminAccountActiveStatus {
		h.ErrHandler.Forbidden(w, r, "Account has been locked. Please contact support")
		return
	}

	passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, admin.HashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !passwordMatches {
		// count before this attempt is logged, the log is written in the background
		count := h.ActivityRepo.CountConsecutiveFailedLoginAttempts(adminID, repository.ActivityLogAdminFailedLoginDescription)

		h.logAdminActivity(r, adminID, repository.ActivityLogAdminFailedLoginDescription)

		if count+1 >= maxFailedLogins {
			h.Helper.BackgroundTask(r, func() error {
				return h.AdminRepo.Lock(admin.ID)
			})
			h.logAdminActivity(r, adminID, repository.ActivityLogAdminLockedDescription)

			h.ErrHandler.Forbidden(w, r, "Account has been locked. Please contact support")
			return
		}

		h.ErrHandler.InvalidCredentials(w, r)
		return
	}

	h.logAdminActivity(r, adminID, repository.ActivityLogAdminLoginDescription)

	token, expiry, err := h.issueToken(adminID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]any{
		"auth_token":   token,
		"token_expiry": expiry.Format(time.RFC3339),
	}

	message := "Login successful"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleCreateAdmin lets a signed-in admin add another staff account.
func (h *AuthHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string              `json:"name"`
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// staff accounts guard member data, their passwords must be strong
	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	input.Validator.Check(validator.NotBlank(input.Name), "Name is required")
	input.Validator.Check(validator.MaxRunes(input.Name, 100), "Name must not be more than 100 characters")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	id, err := h.AdminRepo.Insert(&models.Admin{
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAdminEmail) {
			h.ErrHandler.Conflict(w, r, ErrAdminEmailTaken)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	creator := context.ContextGetAuthenticatedAdmin(r)
	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			ActorID:     strconv.FormatInt(creator.ID, 10),
			Entity:      repository.ActivityLogAdminEntity,
			EntityId:    strconv.FormatInt(id, 10),
			Description: repository.ActivityLogAdminCreatedDescription,
		})
		return err
	})

	data := map[string]any{
		"id":    id,
		"name":  input.Name,
		"email": input.Email,
	}

	err = response.JSONCreatedResponse(w, data, "Admin created successfully")
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuthHandler) logAdminActivity(r *http.Request, adminID, description string) {
	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			ActorID:     adminID,
			Entity:      repository.ActivityLogAdminEntity,
			EntityId:    adminID,
			Description: description,
		})
		return err
	})
}

func (h *AuthHandler) issueToken(subject string) (string, time.Time, error) {
	var claims jwt.Claims
	claims.Subject = subject

	expiry := time.Now().Add(h.Config.Jwt.Expiry)
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expiry)

	claims.Issuer = h.Config.BaseURL
	claims.Audiences = []string{h.Config.BaseURL}

	jwtBytes, err := claims.HMACSign(jwt.HS256, []byte(h.Config.Jwt.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return string(jwtBytes), expiry, nil
}
