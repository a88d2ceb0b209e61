package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS answers every MoveRequest received on the socket with a
// MoveResponse, or an ErrorResponse when the request fails.
func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	log.Debug().Str("remote", r.RemoteAddr).Msg("ws-connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws-read-failed")
			}
			return
		}

		var reply any
		var req MoveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			reply = ErrorResponse{Error: "invalid json"}
		} else if resp, err := h.svc.Move(req); err != nil {
			reply = ErrorResponse{Error: err.Error()}
		} else {
			reply = resp
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("ws-write-failed")
			return
		}
	}
}
