package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mailclip/mailclip/pkg/extension/event"
	"github.com/mailclip/mailclip/pkg/metric"
	"github.com/mailclip/mailclip/pkg/rest/model"
	"github.com/mailclip/mailclip/pkg/savehub"
	"github.com/mailclip/mailclip/pkg/server/web"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// options for gorilla connection upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// saveListener relays save records from the hub to one websocket client.
type saveListener struct {
	hub *savehub.Hub                   // Global save record hub.
	c   chan *model.JSONMonitorEventV1 // Queue of outgoing events.
}

// newSaveListener creates a listener and registers it with the hub, which
// replays its history buffer first.
func newSaveListener(hub *savehub.Hub) *saveListener {
	sl := &saveListener{
		hub: hub,
		c:   make(chan *model.JSONMonitorEventV1, 100),
	}
	hub.AddListener(sl)
	return sl
}

// Receive handles an incoming save record.
func (sl *saveListener) Receive(rec event.SaveRecord) error {
	// Enqueue for websocket.
	sl.c <- &model.JSONMonitorEventV1{
		Variant: "page-saved",
		Save: &model.JSONSaveRecordV1{
			ID:              rec.ID,
			Target:          rec.Target,
			PageID:          rec.PageID,
			URL:             rec.URL,
			Subject:         rec.Subject,
			AttachmentCount: rec.AttachmentCount,
			ImageCount:      rec.ImageCount,
			Partial:         rec.Partial,
			Date:            rec.Date,
		},
	}
	return nil
}

// WSReader makes sure the websocket client is still connected, discards any
// messages from client.
func (sl *saveListener) WSReader(conn *websocket.Conn) {
	slog := log.With().Str("module", "rest").Str("proto", "WebSocket").
		Str("remote", conn.RemoteAddr().String()).Logger()
	defer sl.Close()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Warn().Err(err).Msg("Failed to setup read deadline")
	}
	conn.SetPongHandler(func(string) error {
		slog.Debug().Msg("Got pong")
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			slog.Warn().Err(err).Msg("Failed to set read deadline in pong")
		}
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				// Unexpected close code.
				slog.Warn().Err(err).Msg("Socket error")
			} else {
				slog.Debug().Msg("Closing socket")
			}
			break
		}
	}
}

// WSWriter makes sure the websocket client is still connected.
func (sl *saveListener) WSWriter(conn *websocket.Conn) {
	slog := log.With().Str("module", "rest").Str("proto", "WebSocket").
		Str("remote", conn.RemoteAddr().String()).Logger()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sl.Close()
	}()

	// Handle records from hub until saveListener is closed.
	for {
		select {
		case ev, ok := <-sl.c:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				slog.Warn().Err(err).Msg("Failed to set write deadline for event")
			}
			if !ok {
				// saveListener closed, exit.
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if conn.WriteJSON(ev) != nil {
				// Write failed.
				return
			}
		case <-ticker.C:
			// Send ping.
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				slog.Warn().Err(err).Msg("Failed to set write deadline for ping")
			}
			if conn.WriteMessage(websocket.PingMessage, []byte{}) != nil {
				// Write error.
				return
			}
			slog.Debug().Msg("Sent ping")
		}
	}
}

// Close removes the listener registration.
func (sl *saveListener) Close() {
	select {
	case <-sl.c:
		// Already closed.
	default:
		sl.hub.RemoveListener(sl)
		close(sl.c)
	}
}

// MonitorSavesV1 is a web handler which upgrades the connection to a websocket
// and notifies the client of completed saves.
func MonitorSavesV1(
	w http.ResponseWriter, req *http.Request, ctx *web.Context) (err error) {
	// Upgrade to Websocket.
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return err
	}
	metric.WebSocketsCurrent.Inc()
	defer func() {
		_ = conn.Close()
		metric.WebSocketsCurrent.Dec()
	}()
	log.Debug().Str("module", "rest").Str("proto", "WebSocket").
		Str("remote", conn.RemoteAddr().String()).Msg("Upgraded to WebSocket")
	// Create, register listener; then interact with conn.
	sl := newSaveListener(ctx.SaveHub)
	go sl.WSWriter(conn)
	sl.WSReader(conn)
	return nil
}
