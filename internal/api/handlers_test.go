package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Clegas3/Sector-Command/internal/game"
)

func newTestServer(t *testing.T, hub *Hub, opts ...game.RunOption) (*Server, *httptest.Server) {
	t.Helper()
	run, err := game.NewTestRun(opts...)
	if err != nil {
		t.Fatalf("NewTestRun: %v", err)
	}
	s := NewServer(run.Controller, hub)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getState(t *testing.T, ts *httptest.Server) game.Snapshot {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snap struct {
		Phase  string              `json:"phase"`
		Turn   int                 `json:"turn"`
		Ledger game.ResourceLedger `json:"ledger"`
		Queue  []game.ActionPlan   `json:"queue"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	out := game.Snapshot{Turn: snap.Turn, Ledger: snap.Ledger, Queue: snap.Queue}
	switch snap.Phase {
	case "planning":
		out.Phase = game.PhasePlanning
	case "execution":
		out.Phase = game.PhaseExecution
	case "results":
		out.Phase = game.PhaseResults
	case "game_over":
		out.Phase = game.PhaseGameOver
	default:
		t.Fatalf("unknown phase %q", snap.Phase)
	}
	return out
}

func TestHandlers_PlanAndCancel(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := post(t, ts, "/api/actions/plan", PlanRequest{Origin: game.Cell{X: 0, Y: 0}, Target: game.Cell{X: 3, Y: 3}, Archetype: "test_shell"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("plan: status %d", resp.StatusCode)
	}
	var plan game.ActionPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}
	if plan.ArchetypeKey != "test_shell" || plan.ReservedCost != 25 {
		t.Errorf("plan %+v", plan)
	}

	snap := getState(t, ts)
	if snap.Ledger.Energy != 85 || snap.Ledger.Materials != 40 || len(snap.Queue) != 1 {
		t.Errorf("state after plan: %+v", snap)
	}

	if resp := post(t, ts, "/api/actions/cancel", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d", resp.StatusCode)
	}
	snap = getState(t, ts)
	if snap.Ledger.Energy != 100 || snap.Ledger.Materials != 50 || len(snap.Queue) != 0 {
		t.Errorf("state after cancel: %+v", snap)
	}
}

func TestHandlers_ErrorStatus(t *testing.T) {
	heavy := game.Archetype{Key: "heavy", Kind: game.KindBallistic, BaseAccuracy: 1, Range: 50, FlightSpeed: 1, EnergyCost: 500}
	_, ts := newTestServer(t, nil, game.WithArchetype(game.TestShell), game.WithArchetype(heavy))

	cases := []struct {
		name string
		req  PlanRequest
		want int
	}{
		{"unknown archetype", PlanRequest{Archetype: "ghost"}, http.StatusNotFound},
		{"out of bounds", PlanRequest{Target: game.Cell{X: 40, Y: 0}, Archetype: "test_shell"}, http.StatusBadRequest},
		{"insufficient energy", PlanRequest{Archetype: "heavy"}, http.StatusPaymentRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := post(t, ts, "/api/actions/plan", tc.req); resp.StatusCode != tc.want {
				t.Errorf("status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}

	resp, err := http.Post(ts.URL+"/api/actions/plan", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: status %d", resp.StatusCode)
	}
}

func TestHandlers_TurnFlow(t *testing.T) {
	s, ts := newTestServer(t, nil)

	post(t, ts, "/api/actions/plan", PlanRequest{Origin: game.Cell{X: 2, Y: 2}, Target: game.Cell{X: 2, Y: 2}, Archetype: "test_shell"})
	if resp := post(t, ts, "/api/turn/execute", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("execute: status %d", resp.StatusCode)
	}
	if got := getState(t, ts).Phase; got != game.PhaseExecution {
		t.Fatalf("phase %s after execute", got)
	}
	if resp := post(t, ts, "/api/actions/plan", PlanRequest{Archetype: "test_shell"}); resp.StatusCode != http.StatusConflict {
		t.Errorf("plan during execution: status %d, want 409", resp.StatusCode)
	}

	// Zero pacing: one tick resolves the queue and runs through Results.
	s.Tick(0)
	if got := getState(t, ts); got.Phase != game.PhasePlanning || got.Turn != 2 {
		t.Errorf("after tick: %s turn %d", got.Phase, got.Turn)
	}
	if resp := post(t, ts, "/api/turn/continue", nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("continue outside results: status %d", resp.StatusCode)
	}
}

func TestHandlers_ContinueFromResults(t *testing.T) {
	s, ts := newTestServer(t, nil, game.WithPacing(game.Pacing{ResultsDelay: time.Minute}))

	post(t, ts, "/api/turn/execute", nil)
	s.Tick(0)
	if got := getState(t, ts).Phase; got != game.PhaseResults {
		t.Fatalf("phase %s, want results", got)
	}
	if resp := post(t, ts, "/api/turn/continue", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("continue: status %d", resp.StatusCode)
	}
	if got := getState(t, ts); got.Phase != game.PhasePlanning || got.Turn != 2 {
		t.Errorf("after continue: %s turn %d", got.Phase, got.Turn)
	}
}

func TestHandlers_PathFeedback(t *testing.T) {
	guided := game.Archetype{Key: "guided", Kind: game.KindCustom, BaseAccuracy: 0.5, Range: 20, FlightSpeed: 2, AllowsCustomPath: true}
	_, ts := newTestServer(t, nil, game.WithArchetype(guided))

	straight := game.FlightPath{{0, 0, 0}, {2, 0, 0}, {4, 0, 0}}
	resp := post(t, ts, "/api/path/evaluate", PathRequest{Origin: game.Cell{X: 0, Y: 0}, Target: game.Cell{X: 4, Y: 0}, Archetype: "guided", Path: straight})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("evaluate: status %d", resp.StatusCode)
	}
	var eval PathEvaluation
	if err := json.NewDecoder(resp.Body).Decode(&eval); err != nil {
		t.Fatal(err)
	}
	if eval.Quality < 0.999 || eval.EstimatedAccuracy <= 0 {
		t.Errorf("evaluation %+v", eval)
	}

	if resp := post(t, ts, "/api/path/evaluate", PathRequest{Path: game.FlightPath{{0, 0, 0}}}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("degenerate path: status %d", resp.StatusCode)
	}

	resp = post(t, ts, "/api/path/preview", PathRequest{Origin: game.Cell{X: 0, Y: 0}, Target: game.Cell{X: 5, Y: 5}, Archetype: "guided"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview: status %d", resp.StatusCode)
	}
	var preview PathPreview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		t.Fatal(err)
	}
	if len(preview.Path) != 17 || !preview.CanAfford {
		t.Errorf("preview %d points, affordable %t", len(preview.Path), preview.CanAfford)
	}
}

func TestHandlers_ArsenalAndGrid(t *testing.T) {
	_, ts := newTestServer(t, nil, game.WithGridSize(6, 4))

	resp, err := http.Get(ts.URL + "/api/arsenal")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var arsenal []struct {
		Key       string `json:"key"`
		CanAfford bool   `json:"can_afford"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&arsenal); err != nil {
		t.Fatal(err)
	}
	if len(arsenal) != 1 || arsenal[0].Key != "test_shell" || !arsenal[0].CanAfford {
		t.Errorf("arsenal %+v", arsenal)
	}

	gresp, err := http.Get(ts.URL + "/api/grid")
	if err != nil {
		t.Fatal(err)
	}
	defer gresp.Body.Close()
	var grid GridResponse
	if err := json.NewDecoder(gresp.Body).Decode(&grid); err != nil {
		t.Fatal(err)
	}
	if grid.Width != 6 || grid.Height != 4 || len(grid.Sectors) != 24 {
		t.Errorf("grid %dx%d with %d sectors", grid.Width, grid.Height, len(grid.Sectors))
	}
}

func TestHub_BroadcastsEngineEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	s, ts := newTestServer(t, hub)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration happens on the hub goroutine; give it a moment.
	time.Sleep(50 * time.Millisecond)

	post(t, ts, "/api/actions/plan", PlanRequest{Origin: game.Cell{X: 1, Y: 1}, Target: game.Cell{X: 1, Y: 1}, Archetype: "test_shell"})
	post(t, ts, "/api/turn/execute", nil)
	s.Tick(0)

	want := []string{EventActionPlanned, EventPhaseChanged, EventImpactResolved, EventPhaseChanged, EventPhaseChanged}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i, typ := range want {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if msg.Type != typ || msg.Sender != "system" {
			t.Errorf("message %d: type %q sender %q, want %q", i, msg.Type, msg.Sender, typ)
		}
	}
}
