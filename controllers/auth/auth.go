package auth

import (
	"errors"
	"time"

	"courier-booking/constants"
	"courier-booking/logger"
	"courier-booking/middleware"
	userModel "courier-booking/models/user"
	"courier-booking/repository"
	authService "courier-booking/services/auth"
	"courier-booking/types"
	authTypes "courier-booking/types/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthController struct {
	users        repository.UserRepository
	hasher       *authService.PasswordHasher
	tokens       *authService.TokenIssuer
	secureCookie bool
}

func NewAuthController(users repository.UserRepository, hasher *authService.PasswordHasher, tokens *authService.TokenIssuer, secureCookie bool) *AuthController {
	return &AuthController{users: users, hasher: hasher, tokens: tokens, secureCookie: secureCookie}
}

func (h *AuthController) setAccessCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     constants.AccessCookie,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Strict",
		Path:     "/",
	})
}

// issueSession signs a token for u, sets the access cookie and writes the auth payload
func (h *AuthController) issueSession(c *fiber.Ctx, u userModel.User, status int, message string) error {
	token, expiresAt, err := h.tokens.Issue(u)
	if err != nil {
		logger.Error("Failed to sign access token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to create session",
			Status:  fiber.StatusInternalServerError,
		})
	}
	h.setAccessCookie(c, token, expiresAt)

	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Token:   token,
		Data: authTypes.AuthPayload{
			User:      authTypes.NewSessionUser(u),
			Token:     token,
			ExpiresAt: expiresAt,
		},
	})
}

func (h *AuthController) Signup(c *fiber.Ctx) error {
	var req authTypes.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to create account",
			Status:  fiber.StatusInternalServerError,
		})
	}

	newUser := req.ToUser(uuid.NewString())
	newUser.PasswordHash = hash
	if err := h.users.Create(c.UserContext(), &newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Message: "An account with this email already exists",
				Status:  fiber.StatusConflict,
			})
		}
		logger.Error("Failed to create user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to create account",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logger.Success("New account registered: " + newUser.Email)
	return h.issueSession(c, newUser, fiber.StatusCreated, "Account created successfully")
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	invalid := types.ApiResponse{
		Message: "Invalid email or password",
		Status:  fiber.StatusUnauthorized,
	}

	found, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(invalid)
		}
		logger.Error("Failed to look up user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	ok, err := h.hasher.Verify(req.Password, found.PasswordHash)
	if err != nil {
		logger.Error("Stored password hash is unreadable for "+found.Email, err)
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(invalid)
	}

	return h.issueSession(c, *found, fiber.StatusOK, "Login successful")
}

// Profile returns the account behind the current token
func (h *AuthController) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	found, err := h.users.FindByUUID(c.UserContext(), claims.UUID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusUnauthorized,
			})
		}
		logger.Error("Failed to load profile", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Profile fetched successfully",
		Status:  fiber.StatusOK,
		Data:    authTypes.NewSessionUser(*found),
	})
}

// Logout clears the access cookie. Tokens are stateless, so clients drop theirs as well.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	h.setAccessCookie(c, "", time.Unix(0, 0))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Logged out successfully",
		Status:  fiber.StatusOK,
	})
}
