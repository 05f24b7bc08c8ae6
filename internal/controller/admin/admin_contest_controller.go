package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Marmoset/internal/controller"
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/middleware"
	"github.com/lshigami/Marmoset/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminContestController struct {
	contestService service.ContestService
	attemptService service.AttemptService
}

func NewAdminContestController(contestService service.ContestService, attemptService service.AttemptService) *AdminContestController {
	return &AdminContestController{
		contestService: contestService,
		attemptService: attemptService,
	}
}

// CreateContest godoc
// @Summary (Admin) Create a contest
// @Description Create a contest with price, schedule window and question set. Without dates the contest stays a draft.
// @Tags Admin - Contests
// @Accept json
// @Produce json
// @Param contest body dto.ContestCreateDTO true "Contest data"
// @Success 201 {object} dto.ContestDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or start >= end"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Router /admin/contests [post]
func (c *AdminContestController) CreateContest(ctx *gin.Context) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req dto.ContestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateContest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	contest, err := c.contestService.Create(req, identity)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Admin CreateContest: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, contest)
}

// UpdateContest godoc
// @Summary (Admin) Update a contest
// @Description Patch contest fields. Schedule and questions are immutable once the contest is active or completed.
// @Tags Admin - Contests
// @Accept json
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Param patch body dto.ContestUpdateDTO true "Fields to change"
// @Success 200 {object} dto.ContestDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or schedule"
// @Failure 404 {object} dto.ErrorResponse "Contest not found"
// @Failure 409 {object} dto.ErrorResponse "Field locked after activation"
// @Router /admin/contests/{contest_id} [put]
func (c *AdminContestController) UpdateContest(ctx *gin.Context) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	contestID, err := strconv.ParseUint(ctx.Param("contest_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid contest ID format"})
		return
	}

	var req dto.ContestUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateContest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	contest, err := c.contestService.Update(uint(contestID), req, identity)
	if err != nil {
		log.Error().Err(err).Uint64("contestID", contestID).Msg("Admin UpdateContest: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, contest)
}

// OverrideScore godoc
// @Summary (Admin) Override an attempt's score
// @Description ADMIN-only corrective edit; the prior value is written to the audit log. Rejected once the leaderboard is frozen.
// @Tags Admin - Contests
// @Accept json
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Param user_id path int true "Participant user ID"
// @Param score body dto.ScoreOverrideDTO true "New score"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Contest or attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Leaderboard already frozen"
// @Router /admin/contests/{contest_id}/attempts/{user_id}/score [post]
func (c *AdminContestController) OverrideScore(ctx *gin.Context) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	contestID, err := strconv.ParseUint(ctx.Param("contest_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid contest ID format"})
		return
	}
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	var req dto.ScoreOverrideDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptService.OverrideScore(uint(contestID), uint(userID), req, identity)
	if err != nil {
		log.Error().Err(err).Uint64("contestID", contestID).Uint64("userID", userID).Msg("Admin OverrideScore: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}
