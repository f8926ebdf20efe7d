package web

import (
	"net/http"
	"strings"
	"time"

	"center-hub/auth"
	"center-hub/domain"
	"center-hub/runtime"
	"center-hub/sink"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	readLimit    = int64(4 << 10)
)

// clientCommand is what the browser sends over the socket. Messages and
// history go over REST; the socket only carries room membership and typing.
type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
	Typing bool   `json:"typing,omitempty"`
}

var upgrader = websocket.Upgrader{
	// Origin is enforced by the reverse proxy in front of us.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket runs a push session: the server initiates delivery the
// moment an event lands, for as long as the socket holds.
func (s *Server) handleWebSocket(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "user_id", identity.UserID, "err", err)
		return
	}

	sess, chSink, err := s.realtime.OpenSession(runtime.ModePush, identity)
	if err != nil {
		_ = conn.Close()
		return
	}
	s.joinRequestedRooms(c.Query("rooms"), sess.ID)

	if err = sess.GoLive(); err != nil {
		s.realtime.CloseSession(sess.ID)
		_ = conn.Close()
		return
	}
	s.log.Info("Push session live", "session_id", sess.ID, "user_id", identity.UserID)

	go s.writeLoop(conn, sess, chSink)
	s.readLoop(c, conn, sess)
}

// readLoop consumes room and typing commands until the client goes away.
// Every frame, pongs included, counts as activity for the idle reaper.
func (s *Server) readLoop(c *gin.Context, conn *websocket.Conn, sess *runtime.Session) {
	defer func() {
		s.realtime.CloseSession(sess.ID)
		_ = conn.Close()
		s.log.Info("Push session closed", "session_id", sess.ID)
	}()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
	conn.SetPongHandler(func(string) error {
		sess.Touch()
		return conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
	})

	for {
		var cmd clientCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		sess.Touch()
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))

		room := domain.ParseRoomKey(cmd.Room)
		switch cmd.Action {
		case "join":
			s.realtime.JoinRoom(room, sess.ID)
		case "leave":
			s.realtime.LeaveRoom(room, sess.ID)
		case "typing":
			s.realtime.SetTyping(c.Request.Context(), room, sess.Identity(), cmd.Typing)
		default:
			s.log.Debug("Unknown client command", "session_id", sess.ID, "action", cmd.Action)
		}
	}
}

// writeLoop drains the session sink into the socket and pings on the
// keepalive interval. A write failure just closes the socket; the read loop
// notices and tears the session down.
func (s *Server) writeLoop(conn *websocket.Conn, sess *runtime.Session, chSink *sink.ChannelSink) {
	ticker := time.NewTicker(s.opts.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case env := <-chSink.Frames:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(env); err != nil {
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if !sess.IsLive() {
				_ = conn.Close()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (s *Server) joinRequestedRooms(raw, sessionID string) {
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			s.realtime.JoinRoom(domain.ParseRoomKey(name), sessionID)
		}
	}
}
