package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Marmoset/internal/controller"
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterDTO true "Account data"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, err := c.authService.Register(req)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Register failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to register", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and receive a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Unknown user or wrong password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, err := c.authService.Login(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}
