package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/matchday-engine/middleware"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/realtime"
	"github.com/Dosada05/matchday-engine/services"
)

type GameHandler struct {
	stageService    services.StageService
	matchdayService services.MatchdayService
	publisher       services.Publisher
	logger          *slog.Logger
}

func NewGameHandler(ss services.StageService, ms services.MatchdayService, publisher services.Publisher, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		stageService:    ss,
		matchdayService: ms,
		publisher:       publisher,
		logger:          logger,
	}
}

type stageChangedPayload struct {
	SaveGameID int          `json:"saveGameId"`
	GameStage  models.Stage `json:"gameStage"`
}

type setStageInput struct {
	Stage models.Stage `json:"stage"`
}

type advanceMatchdayInput struct {
	MatchdayType *models.MatchdayType `json:"matchdayType,omitempty"`
}

type ensureMatchdayInput struct {
	Type       models.MatchdayType `json:"type"`
	RoundLabel *string             `json:"roundLabel,omitempty"`
}

// notify publishes after the state change has committed; failures only get logged.
func (h *GameHandler) notify(ctx context.Context, saveGameID int, msgType string, payload interface{}) {
	room := realtime.SaveGameRoom(saveGameID)
	if err := h.publisher.Publish(ctx, room, realtime.Message{Type: msgType, Payload: payload}); err != nil {
		h.logger.Warn("failed to publish notification",
			slog.String("type", msgType),
			slog.String("room", room),
			slog.Any("error", err))
	}
}

func (h *GameHandler) advance(w http.ResponseWriter, r *http.Request, saveGameID int) {
	stage, err := h.stageService.AdvanceStage(r.Context(), saveGameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.notify(r.Context(), saveGameID, realtime.TypeStageChanged, stageChangedPayload{SaveGameID: saveGameID, GameStage: stage})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Advanced to " + string(stage), "gameStage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceCurrentStage godoc
// @Summary Advance the current save game to its next stage
// @Tags game
// @Produce json
// @Success 200 {object} map[string]interface{} "New stage"
// @Failure 404 {object} map[string]string "No game state"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /advance-stage [post]
func (h *GameHandler) AdvanceCurrentStage(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := h.stageService.CurrentSaveGameID(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.advance(w, r, saveGameID)
}

// AdvanceStage godoc
// @Summary Advance a save game to its next stage
// @Tags game
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Success 200 {object} map[string]interface{} "New stage"
// @Failure 400 {object} map[string]string "Invalid save game ID"
// @Failure 404 {object} map[string]string "No game state"
// @Router /saves/{saveGameID}/advance-stage [post]
func (h *GameHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.advance(w, r, saveGameID)
}

// GetGameState godoc
// @Summary Read the progress row of a save game
// @Tags game
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Success 200 {object} map[string]interface{} "Game state"
// @Failure 404 {object} map[string]string "No game state"
// @Router /saves/{saveGameID}/game-state [get]
func (h *GameHandler) GetGameState(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.stageService.GetState(r.Context(), saveGameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"gameState": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetStage godoc
// @Summary Override the stage of a save game
// @Tags game
// @Accept json
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Param input body setStageInput true "Target stage"
// @Success 200 {object} map[string]interface{} "Stage set"
// @Failure 400 {object} map[string]string "Unknown stage"
// @Failure 404 {object} map[string]string "No game state"
// @Router /saves/{saveGameID}/stage [put]
func (h *GameHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setStageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.stageService.SetStage(r.Context(), saveGameID, input.Stage); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.notify(r.Context(), saveGameID, realtime.TypeStageChanged, stageChangedPayload{SaveGameID: saveGameID, GameStage: input.Stage})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Stage set to " + string(input.Stage), "gameStage": input.Stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceMatchday godoc
// @Summary Start the next round of a save game
// @Tags game
// @Accept json
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Param input body advanceMatchdayInput false "Type of the next round"
// @Success 200 {object} map[string]interface{} "Updated game state"
// @Failure 400 {object} map[string]string "Invalid matchday type"
// @Failure 404 {object} map[string]string "No game state"
// @Router /saves/{saveGameID}/advance-matchday [post]
func (h *GameHandler) AdvanceMatchday(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input advanceMatchdayInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.stageService.AdvanceMatchday(r.Context(), saveGameID, input.MatchdayType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.notify(r.Context(), saveGameID, realtime.TypeMatchdayAdvanced, state)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"gameState": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EnsureMatchday godoc
// @Summary Create or update a numbered matchday of a save game
// @Tags matchdays
// @Accept json
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Param number path int true "Matchday number"
// @Param input body ensureMatchdayInput true "Matchday type and optional cup round label"
// @Success 200 {object} map[string]interface{} "Matchday"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Gave up after repeated conflicts"
// @Router /saves/{saveGameID}/matchdays/{number} [put]
func (h *GameHandler) EnsureMatchday(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	number, err := getIDFromURL(r, "number")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input ensureMatchdayInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchday, err := h.matchdayService.EnsureMatchday(r.Context(), saveGameID, number, input.Type, input.RoundLabel)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchday": matchday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
