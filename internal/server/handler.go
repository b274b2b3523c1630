package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel/service"
	apperrors "github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/errors"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/errors/i18n"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/requestctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc/codes"
)

// PlayerHeader carries the caller identity, standing in for the
// transaction-origin identity of the original chain environment.
const PlayerHeader = "X-Battlement-Player"

const tracerName = "battlement/server"

// Handler routes duel API requests.
type Handler struct {
	duels  *service.Service
	height HeightSource
	mux    *http.ServeMux
}

// NewHandler creates the duel API handler.
func NewHandler(duels *service.Service, height HeightSource) *Handler {
	h := &Handler{duels: duels, height: height}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/duels", h.createDuel)
	mux.HandleFunc("POST /v1/duels/attack", h.attack)
	mux.HandleFunc("POST /v1/duels/counter-attack", h.counterAttack)
	mux.HandleFunc("POST /v1/duels/forfeit", h.forfeit)
	mux.HandleFunc("GET /v1/duels", h.getDuel)
	mux.HandleFunc("GET /v1/duels/turn", h.getTurn)
	mux.HandleFunc("GET /v1/duels/status", h.getStatus)
	mux.HandleFunc("GET /v1/duels/history", h.getHistory)
	h.mux = mux

	return h
}

// ServeHTTP implements http.Handler. The calling player, when present in
// the request header, is stored in the request context before routing.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if player := strings.TrimSpace(r.Header.Get(PlayerHeader)); player != "" {
		r = r.WithContext(requestctx.WithPlayer(r.Context(), player))
	}
	h.mux.ServeHTTP(w, r)
}

// duelRequest is the body shared by all mutating duel endpoints.
type duelRequest struct {
	Opponent string `json:"opponent"`
}

// sessionView is the wire shape of a duel session.
type sessionView struct {
	PlayerA    string `json:"player_a"`
	PlayerB    string `json:"player_b"`
	HealthA    int    `json:"health_a"`
	HealthB    int    `json:"health_b"`
	Turn       string `json:"turn"`
	Winner     string `json:"winner,omitempty"`
	CreatedBy  string `json:"created_by"`
	LastMoveAt uint64 `json:"last_move_at"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toView(session duel.Session) sessionView {
	return sessionView{
		PlayerA:    session.PlayerA,
		PlayerB:    session.PlayerB,
		HealthA:    session.HealthA,
		HealthB:    session.HealthB,
		Turn:       session.Turn,
		Winner:     session.Winner,
		CreatedBy:  session.CreatedBy,
		LastMoveAt: session.LastMoveAt,
	}
}

func (h *Handler) createDuel(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "CreateDuel", h.duels.Create)
}

func (h *Handler) attack(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "Attack", h.duels.Attack)
}

func (h *Handler) counterAttack(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "CounterAttack", h.duels.CounterAttack)
}

func (h *Handler) forfeit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "Forfeit", h.duels.Forfeit)
}

// mutate runs one lifecycle mutation: caller from the player header,
// opponent from the request body, height from the server's source.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op string, call func(ctx context.Context, caller, opponent string, now uint64) error) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), op)
	defer span.End()

	caller := requestctx.PlayerFromContext(ctx)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "player header is required")
		return
	}

	var req duelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.Opponent = strings.TrimSpace(req.Opponent)

	span.SetAttributes(attribute.String("duel.caller", caller))
	now := h.height.Now()
	if err := call(ctx, caller, req.Opponent, now); err != nil {
		writeDomainError(w, err)
		return
	}

	session, found, err := h.duels.Get(ctx, caller, req.Opponent)
	if err != nil || !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toView(session))
}

func (h *Handler) getDuel(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "GetDuel")
	defer span.End()

	a, b, ok := pairParams(w, r)
	if !ok {
		return
	}
	session, found, err := h.duels.Get(ctx, a, b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, string(apperrors.CodeDuelNotFound), "no duel exists for this pair")
		return
	}
	writeJSON(w, http.StatusOK, toView(session))
}

func (h *Handler) getTurn(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "GetTurn")
	defer span.End()

	caller := requestctx.PlayerFromContext(ctx)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "player header is required")
		return
	}
	opponent := strings.TrimSpace(r.URL.Query().Get("opponent"))
	if opponent == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "opponent is required")
		return
	}

	myTurn, err := h.duels.IsTurn(ctx, caller, opponent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"my_turn": myTurn})
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "GetStatus")
	defer span.End()

	a, b, ok := pairParams(w, r)
	if !ok {
		return
	}
	text, err := h.duels.StatusText(ctx, a, b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": text})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "GetHistory")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "player is required")
		return
	}
	sessions, err := h.duels.History(ctx, player)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, toView(session))
	}
	writeJSON(w, http.StatusOK, map[string][]sessionView{"duels": views})
}

func pairParams(w http.ResponseWriter, r *http.Request) (a, b string, ok bool) {
	query := r.URL.Query()
	a = strings.TrimSpace(query.Get("a"))
	b = strings.TrimSpace(query.Get("b"))
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "both players are required")
		return "", "", false
	}
	return a, b, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps a domain error to an HTTP response, reusing the gRPC
// code mapping and the en-US message catalog for the user-facing text.
func writeDomainError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeUnknown), "an unexpected error occurred")
		return
	}

	catalog := i18n.GetCatalog(apperrors.DefaultLocale)
	message := catalog.Format(string(appErr.Code), appErr.Metadata)
	writeError(w, httpStatus(appErr.Code.GRPCCode()), string(appErr.Code), message)
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	case codes.PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
