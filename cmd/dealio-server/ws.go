package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dealio-backend/services/deals"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// scanSocket starts a scan and streams its events over a websocket.
// The connection closes after the terminal event.
func (h dealsHandlers) scanSocket(w http.ResponseWriter, r *http.Request) {
	brand, model, ok := guitarParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing brand or model"))
		return
	}

	scan, err := h.service.RunScan(r.Context(), brand, model, 0)
	if errors.Is(err, deals.ErrScanActive) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("scan websocket upgrade failed", "err", err)
		scan.Cancel()
		return
	}
	defer conn.Close()

	// drain client frames so close messages are processed; a client
	// going away cancels the scan it asked for
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				scan.Cancel()
				return
			}
		}
	}()

	for ev := range scan.Events() {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		err = conn.WriteJSON(ev)
		if err != nil {
			slog.Debug("scan websocket write failed", "err", err, "scan_id", scan.ID)
			scan.Cancel()
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scan finished"),
	)
}
