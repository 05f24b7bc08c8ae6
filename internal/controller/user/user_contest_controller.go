package user

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

type UserContestController struct {
	contestService     service.ContestService
	attemptService     service.AttemptService
	leaderboardService service.LeaderboardService
}

func NewUserContestController(
	contestService service.ContestService,
	attemptService service.AttemptService,
	leaderboardService service.LeaderboardService,
) *UserContestController {
	return &UserContestController{
		contestService:     contestService,
		attemptService:     attemptService,
		leaderboardService: leaderboardService,
	}
}

// GetAllContests godoc
// @Summary List contests
// @Description All contests with derived status and participant counts.
// @Tags Contests
// @Produce json
// @Success 200 {array} dto.ContestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /contests [get]
func (c *UserContestController) GetAllContests(ctx *gin.Context) {
	contests, err := c.contestService.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("GetAllContests: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve contests"})
		return
	}
	ctx.JSON(http.StatusOK, contests)
}

// GetCompletedContests godoc
// @Summary List completed contests
// @Description Contests whose window has ended, annotated with participant and leaderboard entry counts.
// @Tags Contests
// @Produce json
// @Success 200 {array} dto.ContestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /contests/completed [get]
func (c *UserContestController) GetCompletedContests(ctx *gin.Context) {
	contests, err := c.contestService.ListCompleted()
	if err != nil {
		log.Error().Err(err).Msg("GetCompletedContests: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve completed contests"})
		return
	}
	ctx.JSON(http.StatusOK, contests)
}

// GetContest godoc
// @Summary Get one contest
// @Description Contest attributes, derived status, counts and the playable question set (correct answers hidden).
// @Tags Contests
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Success 200 {object} dto.ContestDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /contests/{contest_id} [get]
func (c *UserContestController) GetContest(ctx *gin.Context) {
	contestID, err := strconv.ParseUint(ctx.Param("contest_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid contest ID format"})
		return
	}

	contest, err := c.contestService.Get(uint(contestID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, contest)
}

// SubmitAttempt godoc
// @Summary Submit answers for a contest
// @Description One submission per participant per contest; only while the contest is active.
// @Tags Contests
// @Accept json
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Param answers body dto.AttemptSubmitDTO true "Answer set"
// @Success 201 {object} dto.AttemptResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Contest not found"
// @Failure 409 {object} dto.ErrorResponse "Contest not active or already attempted"
// @Router /contests/{contest_id}/attempts [post]
func (c *UserContestController) SubmitAttempt(ctx *gin.Context) {
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

	var req dto.AttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptService.Submit(uint(contestID), identity, req)
	if err != nil {
		log.Warn().Err(err).Uint64("contestID", contestID).Uint("userID", identity.UserID).Msg("SubmitAttempt: rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// GetMyAttempt godoc
// @Summary Get the caller's attempt for a contest
// @Tags Contests
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Success 200 {object} dto.AttemptResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No attempt yet"
// @Router /contests/{contest_id}/my-attempt [get]
func (c *UserContestController) GetMyAttempt(ctx *gin.Context) {
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

	attempt, err := c.attemptService.Get(uint(contestID), identity.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// GetLeaderboard godoc
// @Summary Get a contest's leaderboard
// @Description Live ranking while the contest runs; the frozen final board after it completes.
// @Tags Contests
// @Produce json
// @Param contest_id path int true "Contest ID"
// @Success 200 {object} dto.LeaderboardResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /contests/{contest_id}/leaderboard [get]
func (c *UserContestController) GetLeaderboard(ctx *gin.Context) {
	contestID, err := strconv.ParseUint(ctx.Param("contest_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid contest ID format"})
		return
	}

	leaderboard, err := c.leaderboardService.Rank(ctx.Request.Context(), uint(contestID))
	if err != nil {
		log.Error().Err(err).Uint64("contestID", contestID).Msg("GetLeaderboard: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, leaderboard)
}
