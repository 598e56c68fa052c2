package auth

import (
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthenticationResponse is the token pair payload returned by the three
// public endpoints.
type AuthenticationResponse struct {
	Token         string `json:"token"`
	RefreshToken  string `json:"refreshToken"`
	Username      string `json:"username,omitempty"`
	ModeratorRole bool   `json:"moderatorRole"`
}

// ErrorResponse is the structured error body. Errors carries per-field
// validation messages and is omitted otherwise.
type ErrorResponse struct {
	Message string   `json:"message,omitempty"`
	Status  string   `json:"status,omitempty"`
	Error   int      `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// AuthControllerRoutes are the public endpoint paths
type AuthControllerRoutes struct {
	Register     string
	Authenticate string
	Refresh      string
}

// AuthController exposes the account service over JSON
type AuthController struct {
	Logger  Logger
	Service *AccountService
	Routes  *AuthControllerRoutes
}

// AuthControllerOption configures the controller
type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger overrides the controller logger
func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// NewAuthController will create a controller for the given service
func NewAuthController(service *AccountService, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:  defLogger{},
		Service: service,
		Routes: &AuthControllerRoutes{
			Register:     "/register",
			Authenticate: "/authenticate",
			Refresh:      "/refresh",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing AccountService in auth controller...")
	}

	return c
}

// RegisterRoutes mounts the public endpoints
func (a *AuthController) RegisterRoutes(app fiber.Router) {
	app.Post(a.Routes.Register, a.RegisterPost)
	app.Post(a.Routes.Authenticate, a.AuthenticatePost)
	app.Post(a.Routes.Refresh, a.RefreshPost)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegistrationRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.handleError(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.Service.Register(c.UserContext(), *payload)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(a.toResponse(result))
}

func (a *AuthController) AuthenticatePost(c *fiber.Ctx) error {
	payload := new(AuthenticationRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("authenticate parse payload", "error", err)
		return a.handleError(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.Service.Authenticate(c.UserContext(), *payload)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.JSON(a.toResponse(result))
}

func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := new(RefreshTokenRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return a.handleError(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.Service.Refresh(c.UserContext(), *payload)
	if err != nil {
		// invalid, expired, or non-refresh tokens all collapse to 401 here;
		// only payload validation keeps its 400 shape
		if _, ok := asValidationErrors(err); !ok {
			var richErr *errors.Error
			if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
				return a.unauthorized(c, richErr.Message)
			}
			if IsTokenExpiredError(err) || IsMalformedError(err) {
				return a.unauthorized(c, "refresh token rejected")
			}
		}
		return a.handleError(c, err)
	}

	return c.JSON(a.toResponse(result))
}

func (a *AuthController) toResponse(result *AuthenticationResult) AuthenticationResponse {
	return AuthenticationResponse{
		Token:         result.Token,
		RefreshToken:  result.RefreshToken,
		Username:      result.Identity.Username(),
		ModeratorRole: result.Identity.HasRole(RoleModerator),
	}
}

func (a *AuthController) unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Message: message,
		Status:  http.StatusText(fiber.StatusUnauthorized),
		Error:   fiber.StatusUnauthorized,
	})
}

// handleError converts failures raised by the service into the structured
// error body. Validation failures carry per-field messages; everything else
// maps through the rich error's category and code.
func (a *AuthController) handleError(c *fiber.Ctx, err error) error {
	if verrs, ok := asValidationErrors(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Validation failed!",
			Status:  http.StatusText(fiber.StatusBadRequest),
			Error:   fiber.StatusBadRequest,
			Errors:  FormatValidationErrors(verrs),
		})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("unexpected controller error", "error", richErr.Message, "category", richErr.Category)
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: richErr.Message,
		Status:  http.StatusText(status),
		Error:   status,
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryAuth, errors.CategoryNotFound:
		// unknown user and bad password surface identically
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func asValidationErrors(err error) (validation.Errors, bool) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// FormatValidationErrors flattens ozzo validation errors into a per-field
// message list, ordered by field name for stable output.
func FormatValidationErrors(verrs validation.Errors) []string {
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		if fieldErr := verrs[field]; fieldErr != nil {
			messages = append(messages, fieldErr.Error())
		}
	}
	return messages
}
