package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/matryer/is"

	"github.com/hailam/gametree/internal/tictactoe"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, err := NewService(tictactoe.DefaultSettings())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	srv := httptest.NewServer(NewRouter(svc))
	t.Cleanup(srv.Close)
	return srv
}

func postMove(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/tictactoe/move", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func TestHealth(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	is.NoErr(err)
	defer resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusOK)

	var status StatusResponse
	is.NoErr(json.NewDecoder(resp.Body).Decode(&status))
	is.Equal(status.Status, "ok")
}

func TestMove(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t)

	resp, body := postMove(t, srv, `{"board": ".........", "turn": "x"}`)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/json")

	var mv MoveResponse
	is.NoErr(json.Unmarshal(body, &mv))
	is.True(mv.Move != nil)
	is.Equal(*mv.Move, 0)
	is.Equal(mv.Score, 0.0)
	is.True(mv.Nodes > 0)

	// requests do not share cached scores
	first := mv.Nodes
	_, body = postMove(t, srv, `{"board": ".........", "turn": "x"}`)
	is.NoErr(json.Unmarshal(body, &mv))
	is.Equal(mv.Nodes, first)
}

func TestMoveIndependentPositions(t *testing.T) {
	is := is.New(t)
	svc, err := NewService(tictactoe.DefaultSettings())
	is.NoErr(err)

	_, err = svc.Move(MoveRequest{Board: "XOXO...X.", Turn: "O"})
	is.NoErr(err)

	// scores cached for the first board must not leak into the second one
	mv, err := svc.Move(MoveRequest{Board: "XOX...OX.", Turn: "O"})
	is.NoErr(err)
	is.True(mv.Move != nil)
	is.Equal(*mv.Move, 4)
	is.Equal(mv.Score, 0.0)
}

func TestMoveBlocks(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t)

	_, body := postMove(t, srv, `{"board": "xx.......", "turn": "o"}`)
	var mv MoveResponse
	is.NoErr(json.Unmarshal(body, &mv))
	is.True(mv.Move != nil)
	is.Equal(*mv.Move, 2)
}

func TestMoveWithoutMoves(t *testing.T) {
	tests := map[string]string{
		"finished": `{"board": "xxxoo....", "turn": "o"}`,
		"depth 0":  `{"board": ".........", "turn": "x", "depth": 0}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			srv := newTestServer(t)
			resp, data := postMove(t, srv, body)
			is.Equal(resp.StatusCode, http.StatusOK)
			is.True(strings.Contains(string(data), `"move":null`))
		})
	}
}

func TestMoveBadRequest(t *testing.T) {
	tests := map[string]string{
		"short board":    `{"board": "xx", "turn": "o"}`,
		"bad cell":       `{"board": "xx.z.....", "turn": "o"}`,
		"bad turn":       `{"board": ".........", "turn": "y"}`,
		"negative depth": `{"board": ".........", "turn": "x", "depth": -1}`,
		"not json":       `{"board"`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			srv := newTestServer(t)
			resp, data := postMove(t, srv, body)
			is.Equal(resp.StatusCode, http.StatusBadRequest)

			var e ErrorResponse
			is.NoErr(json.Unmarshal(data, &e))
			is.True(e.Error != "")
		})
	}
}

func TestReset(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t)

	_, body := postMove(t, srv, `{"board": ".........", "turn": "x"}`)
	var first MoveResponse
	is.NoErr(json.Unmarshal(body, &first))

	resp, err := http.Post(srv.URL+"/api/v1/tictactoe/reset", "application/json", nil)
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusOK)

	_, body = postMove(t, srv, `{"board": ".........", "turn": "x"}`)
	var again MoveResponse
	is.NoErr(json.Unmarshal(body, &again))
	is.Equal(again.Nodes, first.Nodes) // re-explored from scratch
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/tictactoe/move")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestWebSocket(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/tictactoe/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	is.NoErr(err)
	defer conn.Close()

	is.NoErr(conn.WriteJSON(MoveRequest{Board: "xx.......", Turn: "o"}))
	var mv MoveResponse
	is.NoErr(conn.ReadJSON(&mv))
	is.True(mv.Move != nil)
	is.Equal(*mv.Move, 2)

	// errors are answered without closing the socket
	is.NoErr(conn.WriteMessage(websocket.TextMessage, []byte("{")))
	var e ErrorResponse
	is.NoErr(conn.ReadJSON(&e))
	is.Equal(e.Error, "invalid json")

	is.NoErr(conn.WriteJSON(MoveRequest{Board: "bad", Turn: "x"}))
	e = ErrorResponse{}
	is.NoErr(conn.ReadJSON(&e))
	is.True(e.Error != "")

	depth := 0
	is.NoErr(conn.WriteJSON(MoveRequest{Board: ".........", Turn: "x", Depth: &depth}))
	mv = MoveResponse{}
	is.NoErr(conn.ReadJSON(&mv))
	is.True(mv.Move == nil)
}
