package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"

	specerrors "github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/pipeline"
)

func quietLogger() *charmlog.Logger {
	return charmlog.NewWithOptions(io.Discard, charmlog.Options{})
}

func writeGraphFixture(t *testing.T) string {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{ID: "P", DisplayName: "Main ProductLine", Footprint: graph.Footprint{Width: 80, Height: 40}},
		{ID: "F1", DisplayName: "Feature One", Symbol: graph.SymbolFeature, Footprint: graph.Footprint{Width: 80, Height: 40}},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(graph.Edge{ID: "e1", Source: "P", Target: "F1", Relation: graph.RelationChildOf}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := graphio.WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, quietLogger())
	s, err := New(runner, Options{
		Addr: ":0",
		Pipeline: pipeline.Options{
			Input:  writeGraphFixture(t),
			Logger: quietLogger(),
		},
	}, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.recompute(context.Background()); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	return s
}

func TestNew_InvalidAddr(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, quietLogger())
	_, err := New(runner, Options{
		Addr:     "no-port",
		Pipeline: pipeline.Options{Input: "model.json"},
	}, quietLogger())
	if err == nil {
		t.Error("New should reject an address without a port")
	}
}

func TestNew_MissingInput(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, quietLogger())
	_, err := New(runner, Options{Addr: ":8787"}, quietLogger())
	if specerrors.GetCode(err) != specerrors.ErrCodeInvalidInput {
		t.Errorf("GetCode() = %v, want %v", specerrors.GetCode(err), specerrors.ErrCodeInvalidInput)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/graph")
	if err != nil {
		t.Fatalf("GET /api/graph: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Hash  string           `json:"hash"`
		Graph graphio.Document `json:"graph"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Hash == "" {
		t.Error("hash is empty")
	}
	if len(body.Graph.Nodes) != 2 || len(body.Graph.Edges) != 1 {
		t.Errorf("graph = (%d nodes, %d edges), want (2, 1)", len(body.Graph.Nodes), len(body.Graph.Edges))
	}
}

func TestHandleLayout(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/layout")
	if err != nil {
		t.Fatalf("GET /api/layout: %v", err)
	}
	defer resp.Body.Close()

	var lay graphio.Layout
	if err := json.NewDecoder(resp.Body).Decode(&lay); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lay.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(lay.Nodes))
	}
	if lay.Algo != pipeline.AlgoTree {
		t.Errorf("Algo = %q, want tree", lay.Algo)
	}
}

func TestHandleImpact(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/impact/F1")
	if err != nil {
		t.Fatalf("GET /api/impact/F1: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Node    string   `json:"node"`
		Related []string `json:"related"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Node != "F1" {
		t.Errorf("node = %q, want F1", body.Node)
	}
	if len(body.Related) != 1 || body.Related[0] != "P" {
		t.Errorf("related = %v, want [P]", body.Related)
	}
}

func TestHandleImpact_UnknownNode(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/impact/ghost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != string(specerrors.ErrCodeNodeNotFound) {
		t.Errorf("code = %q, want %q", body["code"], specerrors.ErrCodeNodeNotFound)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"node not found", specerrors.New(specerrors.ErrCodeNodeNotFound, "x"), http.StatusNotFound},
		{"invalid input", specerrors.New(specerrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"no root", specerrors.New(specerrors.ErrCodeNoRoot, "x"), http.StatusBadRequest},
		{"internal", specerrors.New(specerrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
