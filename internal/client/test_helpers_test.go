package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/proto"
)

type recordedRequest struct {
	Method string
	Path   string
	Token  string
	Body   []byte
}

// fakeServer serves scripted routes and records every request it receives.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t *testing.T, routes map[string]http.HandlerFunc) *fakeServer {
	t.Helper()

	fs := &fakeServer{}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Token:  r.Header.Get(proto.TokenHeader),
			Body:   body,
		})
		fs.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Close)

	return fs
}

func (fs *fakeServer) Requests() []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return append([]recordedRequest(nil), fs.requests...)
}

func (fs *fakeServer) Count(method, path string) int {
	n := 0
	for _, r := range fs.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonHandler(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

var testCreds = proto.Credentials{Email: "alice@example.com", Password: "password123"}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	logger := zerolog.Nop()
	return New(serverURL, testCreds, nil, &logger)
}

// authRoute answers /authenticate with the given token.
func authRoute(token string) http.HandlerFunc {
	return jsonHandler(http.StatusOK, proto.AuthResponse{Token: token})
}

func newCoveredGame(id string, rows, columns, mines int) *proto.Game {
	board := make([][]proto.Cell, rows)
	for i := range board {
		board[i] = make([]proto.Cell, columns)
		for j := range board[i] {
			board[i][j] = proto.CellCovered
		}
	}
	return &proto.Game{
		ID:        id,
		Board:     board,
		Status:    proto.StatusStarted,
		Rows:      rows,
		Columns:   columns,
		Mines:     mines,
		MinesLeft: mines,
		StartTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func assertSameGame(t *testing.T, want, got *proto.Game) {
	t.Helper()

	wantJSON, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal want: %v", err)
	}
	gotJSON, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}
	if string(wantJSON) != string(gotJSON) {
		t.Fatalf("game mismatch:\nwant %s\ngot  %s", wantJSON, gotJSON)
	}
}

// connected returns a client that already holds token "abc".
func connected(t *testing.T, fs *fakeServer) *Client {
	t.Helper()

	c := newTestClient(t, fs.URL)
	res, err := c.Connect(t.Context())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !res.OK() {
		t.Fatalf("connect rejected: %+v", res.Err)
	}
	return c
}
