package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel/service"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/memory"
)

type fixture struct {
	handler *Handler
	height  uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	duels := service.New(memory.New())
	f.handler = NewHandler(duels, HeightFunc(func() uint64 { return f.height }))
	return f
}

func (f *fixture) do(t *testing.T, method, target, player, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if player != "" {
		req.Header.Set(PlayerHeader, player)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) create(t *testing.T, player, opponent string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/duels", player, `{"opponent":"`+opponent+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create duel status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestCreateDuelRequiresPlayerHeader(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/duels", "", `{"opponent":"bob"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateDuelReturnsSession(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/duels", "alice", `{"opponent":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var view sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if view.PlayerA != "alice" || view.PlayerB != "bob" {
		t.Fatalf("players = %q, %q", view.PlayerA, view.PlayerB)
	}
	if view.HealthA != duel.StartingHealth || view.HealthB != duel.StartingHealth {
		t.Fatalf("healths = %d, %d", view.HealthA, view.HealthB)
	}
	if view.Turn != "alice" {
		t.Fatalf("turn = %q, want alice", view.Turn)
	}
}

func TestCreateDuelConflicts(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	rec := f.do(t, http.MethodPost, "/v1/duels", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_ALREADY_EXISTS" {
		t.Fatalf("code = %q, want DUEL_ALREADY_EXISTS", resp.Code)
	}
}

func TestCreateDuelPaddedOpponentConflicts(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	// A padded opponent spelling addresses the same pair.
	rec := f.do(t, http.MethodPost, "/v1/duels", "alice", `{"opponent":" bob "}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_ALREADY_EXISTS" {
		t.Fatalf("code = %q, want DUEL_ALREADY_EXISTS", resp.Code)
	}
}

func TestSelfPlayRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/duels", "alice", `{"opponent":"alice"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_SELF_PLAY" {
		t.Fatalf("code = %q, want DUEL_SELF_PLAY", resp.Code)
	}
}

func TestAttackFlow(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	f.height = 1
	rec := f.do(t, http.MethodPost, "/v1/duels/attack", "alice", `{"opponent":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("attack status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if view.HealthB != duel.StartingHealth-duel.AttackDamage {
		t.Fatalf("bob health = %d, want %d", view.HealthB, duel.StartingHealth-duel.AttackDamage)
	}
	if view.Turn != "bob" {
		t.Fatalf("turn = %q, want bob", view.Turn)
	}
	if view.LastMoveAt != 1 {
		t.Fatalf("last move at = %d, want 1", view.LastMoveAt)
	}

	// Bob moving through the attack face is a wrong-player error.
	rec = f.do(t, http.MethodPost, "/v1/duels/attack", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong face status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_WRONG_PLAYER" {
		t.Fatalf("code = %q, want DUEL_WRONG_PLAYER", resp.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/duels/counter-attack", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("counter-attack status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestAttackOutOfTurn(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	rec := f.do(t, http.MethodPost, "/v1/duels/counter-attack", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_NOT_YOUR_TURN" {
		t.Fatalf("code = %q, want DUEL_NOT_YOUR_TURN", resp.Code)
	}
}

func TestForfeitTiming(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	f.height = duel.MatchTimeoutBlocks - 1
	rec := f.do(t, http.MethodPost, "/v1/duels/forfeit", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("early forfeit status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if resp := decodeError(t, rec); resp.Code != "DUEL_TIMEOUT_NOT_REACHED" {
		t.Fatalf("code = %q, want DUEL_TIMEOUT_NOT_REACHED", resp.Code)
	}

	f.height = duel.MatchTimeoutBlocks
	rec = f.do(t, http.MethodPost, "/v1/duels/forfeit", "bob", `{"opponent":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("forfeit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if view.Winner != "bob" {
		t.Fatalf("winner = %q, want bob", view.Winner)
	}
}

func TestGetDuelBothDirections(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")

	rec := f.do(t, http.MethodGet, "/v1/duels?a=bob&b=alice", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if view.PlayerA != "bob" || view.PlayerB != "alice" {
		t.Fatalf("players = %q, %q, want bob, alice", view.PlayerA, view.PlayerB)
	}
	if view.Turn != "alice" {
		t.Fatalf("turn = %q, want alice regardless of direction", view.Turn)
	}
}

func TestGetDuelMissing(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/duels?a=alice&b=bob", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetTurnAndStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/duels/status?a=alice&b=bob", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
	var statusResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if statusResp["status"] != service.StatusNoSession {
		t.Fatalf("status = %q, want %q", statusResp["status"], service.StatusNoSession)
	}

	f.create(t, "alice", "bob")

	rec = f.do(t, http.MethodGet, "/v1/duels/turn?opponent=bob", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("turn endpoint = %d", rec.Code)
	}
	var turnResp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &turnResp); err != nil {
		t.Fatalf("decode turn: %v", err)
	}
	if !turnResp["my_turn"] {
		t.Fatal("expected my_turn=true for initiator")
	}
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t)
	f.create(t, "alice", "bob")
	f.create(t, "alice", "carol")

	rec := f.do(t, http.MethodGet, "/v1/duels/history?player=alice", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history endpoint = %d", rec.Code)
	}
	var resp map[string][]sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp["duels"]) != 2 {
		t.Fatalf("len(duels) = %d, want 2", len(resp["duels"]))
	}
}

func TestInvalidBodyRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/duels", "alice", `{"opponent":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
