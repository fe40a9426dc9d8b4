/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, call into the turn-cycle
    controller (internal/game) and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the archetype exist?)
    - State Modification (planning, cancelling, executing turns)
    - Thread Safety (Server.mu is the single writer lock around the controller)
*/

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Clegas3/Sector-Command/internal/game"
)

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type PlanRequest struct {
	Origin    game.Cell       `json:"origin"`
	Target    game.Cell       `json:"target"`
	Archetype string          `json:"archetype"`
	Path      game.FlightPath `json:"path,omitempty"` // Hand-drawn, world coordinates
}

type PathRequest struct {
	Origin    game.Cell       `json:"origin"`
	Target    game.Cell       `json:"target"`
	Archetype string          `json:"archetype"`
	Path      game.FlightPath `json:"path,omitempty"`
}

type ArsenalEntry struct {
	*game.Archetype
	CanAfford bool `json:"can_afford"`
}

type PathEvaluation struct {
	Quality           float64 `json:"quality"`
	Efficiency        float64 `json:"efficiency"`
	Smoothness        float64 `json:"smoothness"`
	EstimatedAccuracy float64 `json:"estimated_accuracy"`
}

type PathPreview struct {
	Path              game.FlightPath `json:"path"`
	EstimatedAccuracy float64         `json:"estimated_accuracy"`
	Cost              game.Cost       `json:"cost"`
	CanAfford         bool            `json:"can_afford"`
}

type GridResponse struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	SectorSize float64       `json:"sector_size"`
	Sectors    []game.Sector `json:"sectors"`
}

// Server owns one controller and serializes every call into it.
type Server struct {
	mu   sync.Mutex
	ctrl *game.Controller
	hub  *Hub
}

// NewServer subscribes hub (may be nil) to ctrl's notifications.
func NewServer(ctrl *game.Controller, hub *Hub) *Server {
	s := &Server{ctrl: ctrl, hub: hub}
	if hub != nil {
		ctrl.Subscribe(hub)
	}
	return s
}

// Replace swaps in a new controller, e.g. after a config reload.
func (s *Server) Replace(ctrl *game.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hub != nil {
		s.ctrl.Unsubscribe(s.hub)
		ctrl.Subscribe(s.hub)
	}
	s.ctrl = ctrl
	log.Printf("API: controller replaced, scenario %s", ctrl.Scenario().Key)
}

// Tick advances the execution pacing; main's heartbeat drives it.
func (s *Server) Tick(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Tick(dt)
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// State
	mux.HandleFunc("GET /api/state", s.HandleGetState)
	mux.HandleFunc("GET /api/arsenal", s.HandleGetArsenal)
	mux.HandleFunc("GET /api/grid", s.HandleGetGrid)

	// Actions
	mux.HandleFunc("POST /api/actions/plan", s.HandlePlanAction)
	mux.HandleFunc("POST /api/actions/cancel", s.HandleCancelAction)
	mux.HandleFunc("POST /api/turn/execute", s.HandleExecuteTurn)
	mux.HandleFunc("POST /api/turn/continue", s.HandleContinue)

	// Drawing feedback
	mux.HandleFunc("POST /api/path/evaluate", s.HandleEvaluatePath)
	mux.HandleFunc("POST /api/path/preview", s.HandlePreviewPath)

	if s.hub != nil {
		mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}
	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: encode response: %v", err)
	}
}

// writeError maps engine failures onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrInvalidPhase):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInsufficientEnergy), errors.Is(err, game.ErrInsufficientMaterials):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrUnknownArchetype):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrOutOfBounds), errors.Is(err, game.ErrDegeneratePath):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

// HandleGetState returns the controller snapshot.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.ctrl.Snapshot())
}

// HandleGetArsenal lists the scenario's archetypes with affordability.
func (s *Server) HandleGetArsenal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arsenal := s.ctrl.Arsenal()
	out := make([]ArsenalEntry, 0, len(arsenal))
	for _, a := range arsenal {
		out = append(out, ArsenalEntry{Archetype: a, CanAfford: s.ctrl.CanAfford(a)})
	}
	writeJSON(w, out)
}

// HandleGetGrid returns every sector. Only grids that expose sectors can be listed.
func (s *Server) HandleGetGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.ctrl.Grid().(*game.Grid)
	if !ok {
		http.Error(w, "Grid not inspectable", http.StatusNotFound)
		return
	}
	writeJSON(w, GridResponse{
		Width:      g.Width(),
		Height:     g.Height(),
		SectorSize: g.SectorSize(),
		Sectors:    g.Sectors(),
	})
}

// HandlePlanAction commits one shot and returns the queued plan.
func (s *Server) HandlePlanAction(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.ctrl.Archetype(req.Archetype)
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.ctrl.PlanAction(req.Origin, req.Target, a, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, plan)
}

// HandleCancelAction removes the latest plan and returns the new snapshot.
func (s *Server) HandleCancelAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ctrl.CancelLastAction(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.ctrl.Snapshot())
}

// HandleExecuteTurn starts the execution phase. Resolution then follows the
// heartbeat pacing and is reported over the socket.
func (s *Server) HandleExecuteTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.ExecuteTurn(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.ctrl.Snapshot())
}

// HandleContinue ends the results phase early.
func (s *Server) HandleContinue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.Continue(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.ctrl.Snapshot())
}

// HandleEvaluatePath scores a path being drawn. Nothing is committed.
func (s *Server) HandleEvaluatePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}
	if err := game.ValidatePath(req.Path); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := PathEvaluation{
		Quality:    game.EvaluatePath(req.Path),
		Efficiency: game.PathEfficiency(req.Path),
		Smoothness: game.PathSmoothness(req.Path),
	}
	if req.Archetype != "" {
		a, err := s.ctrl.Archetype(req.Archetype)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.EstimatedAccuracy = s.ctrl.EstimateAccuracy(req.Origin, req.Target, a, req.Path)
	}
	writeJSON(w, resp)
}

// HandlePreviewPath returns the default flight path of an archetype, a
// "pre-flight check" that commits nothing.
func (s *Server) HandlePreviewPath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.ctrl.Archetype(req.Archetype)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.ctrl.Grid().InBounds(req.Origin) || !s.ctrl.Grid().InBounds(req.Target) {
		writeError(w, game.ErrOutOfBounds)
		return
	}
	writeJSON(w, PathPreview{
		Path:              s.ctrl.PreviewPath(req.Origin, req.Target, a),
		EstimatedAccuracy: s.ctrl.EstimateAccuracy(req.Origin, req.Target, a, nil),
		Cost:              a.Cost(),
		CanAfford:         s.ctrl.CanAfford(a),
	})
}
