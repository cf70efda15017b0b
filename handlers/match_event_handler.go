package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/matchday-engine/middleware"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/services"
)

const invalidMatchdayIDMessage = "Invalid matchday ID"

type MatchEventHandler struct {
	eventService services.EventService
	stageService services.StageService
	matchLength  int
}

func NewMatchEventHandler(es services.EventService, ss services.StageService, matchLength int) *MatchEventHandler {
	if matchLength <= 0 {
		matchLength = models.DefaultMatchLength
	}
	return &MatchEventHandler{
		eventService: es,
		stageService: ss,
		matchLength:  matchLength,
	}
}

type eventResponse struct {
	models.MatchEvent
	DisplayMinute string `json:"displayMinute"`
}

type matchReportResponse struct {
	ID        int             `json:"id"`
	HomeTeam  *models.Team    `json:"homeTeam"`
	AwayTeam  *models.Team    `json:"awayTeam"`
	HomeScore *int            `json:"homeScore"`
	AwayScore *int            `json:"awayScore"`
	Events    []eventResponse `json:"events"`
}

func (h *MatchEventHandler) toEventResponses(events []models.MatchEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{MatchEvent: e, DisplayMinute: models.FormatMinute(e.Minute, h.matchLength)})
	}
	return out
}

// parseMatchdayNumber reads {matchdayId}. Anything but a positive integer is rejected
// before the store is touched.
func parseMatchdayNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "matchdayId"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (h *MatchEventHandler) writeReport(w http.ResponseWriter, r *http.Request, saveGameID, number int) {
	reports, err := h.eventService.MatchdayReport(r.Context(), saveGameID, number)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	matches := make([]matchReportResponse, 0, len(reports))
	for _, rep := range reports {
		matches = append(matches, matchReportResponse{
			ID:        rep.Match.ID,
			HomeTeam:  rep.HomeTeam,
			AwayTeam:  rep.AwayTeam,
			HomeScore: rep.Match.HomeScore,
			AwayScore: rep.Match.AwayScore,
			Events:    h.toEventResponses(rep.Events),
		})
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"saveGameId": saveGameID, "matchday": number, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentMatchdayReport godoc
// @Summary Matches and events of a matchday in the current save game
// @Tags events
// @Produce json
// @Param matchdayId path int true "Matchday number"
// @Success 200 {object} map[string]interface{} "Matches with teams and ordered events"
// @Failure 400 {object} map[string]string "Invalid matchday ID"
// @Failure 404 {object} map[string]string "No game state"
// @Router /match-events/{matchdayId} [get]
func (h *MatchEventHandler) CurrentMatchdayReport(w http.ResponseWriter, r *http.Request) {
	number, ok := parseMatchdayNumber(r)
	if !ok {
		errorResponse(w, r, http.StatusBadRequest, invalidMatchdayIDMessage)
		return
	}

	saveGameID, err := h.stageService.CurrentSaveGameID(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeReport(w, r, saveGameID, number)
}

// SaveMatchdayReport godoc
// @Summary Matches and events of a matchday in a save game
// @Tags events
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Param matchdayId path int true "Matchday number"
// @Success 200 {object} map[string]interface{} "Matches with teams and ordered events"
// @Failure 400 {object} map[string]string "Invalid matchday ID"
// @Router /saves/{saveGameID}/match-events/{matchdayId} [get]
func (h *MatchEventHandler) SaveMatchdayReport(w http.ResponseWriter, r *http.Request) {
	saveGameID, err := middleware.GetSaveGameIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	number, ok := parseMatchdayNumber(r)
	if !ok {
		errorResponse(w, r, http.StatusBadRequest, invalidMatchdayIDMessage)
		return
	}
	h.writeReport(w, r, saveGameID, number)
}

// MatchdayEvents godoc
// @Summary Events of a matchday grouped by match id
// @Tags events
// @Produce json
// @Param saveGameID path int true "Save game ID"
// @Param number path int true "Matchday number"
// @Success 200 {object} map[string]interface{} "Events keyed by match id"
// @Failure 400 {object} map[string]string "Invalid matchday number"
// @Router /saves/{saveGameID}/matchdays/{number}/events [get]
func (h *MatchEventHandler) MatchdayEvents(w http.ResponseWriter, r *http.Request) {
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

	grouped, err := h.eventService.EventsForMatchdayNumber(r.Context(), saveGameID, number)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	out := make(map[int][]eventResponse, len(grouped))
	for matchID, events := range grouped {
		out[matchID] = h.toEventResponses(events)
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MatchEvents godoc
// @Summary Ordered events of a match
// @Tags events
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Events ordered by minute"
// @Failure 400 {object} map[string]string "Invalid match ID"
// @Router /matches/{matchID}/events [get]
func (h *MatchEventHandler) MatchEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.EventsForMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": h.toEventResponses(events)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordEvent godoc
// @Summary Append an event to a match and broadcast it to the save game's room
// @Tags events
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.RecordEventInput true "Event"
// @Success 201 {object} map[string]interface{} "Recorded event"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Match not found"
// @Router /matches/{matchID}/events [post]
func (h *MatchEventHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.RecordEvent(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := eventResponse{MatchEvent: *event, DisplayMinute: models.FormatMinute(event.Minute, h.matchLength)}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": resp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
