package websocket

import (
	"log/slog"
	"net/http"
	"strconv"

	ws "github.com/coder/websocket"
)

// Accept upgrades the request to a WebSocket connection.
func Accept(w http.ResponseWriter, r *http.Request) (*ws.Conn, error) {
	return ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // editors and kiosks connect from any origin
	})
}

// HandleWebSocket returns the broadcast feed handler. An optional
// ?business= query narrows the feed to one business.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var businessID int64
		if v := r.URL.Query().Get("business"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				http.Error(w, "invalid business", http.StatusBadRequest)
				return
			}
			businessID = id
		}

		conn, err := Accept(w, r)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		defer conn.CloseNow()

		client := NewClient(hub, conn, businessID, nil)
		client.Run(r.Context())
	}
}
