package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"center-hub/auth"
	"center-hub/domain/event"
	"center-hub/runtime"

	"github.com/gin-gonic/gin"
)

// handleStream runs a pull session over Server-Sent Events. The client
// brings its cursor, the server drains everything visible past it on a poll
// interval, and the stream ends at the pull lifetime cap. EventSource
// reconnects on its own with the Last-Event-ID it saw.
func (s *Server) handleStream(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	sess, chSink, err := s.realtime.OpenSession(runtime.ModePull, identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	defer s.realtime.CloseSession(sess.ID)
	s.joinRequestedRooms(c.Query("rooms"), sess.ID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	if err = sess.GoLive(); err != nil {
		return
	}
	s.log.Info("Pull session live", "session_id", sess.ID, "user_id", identity.UserID)

	cursor := c.Query("cursor")
	if lastID := c.GetHeader("Last-Event-ID"); lastID != "" {
		cursor = lastID
	}

	poll := time.NewTicker(s.opts.PollInterval)
	defer poll.Stop()
	keepalive := time.NewTicker(s.opts.KeepaliveInterval)
	defer keepalive.Stop()
	// Pull streams are bounded: the client is expected to reconnect with its
	// cursor, which keeps reconnect a first-class path instead of a rare one.
	lifetime := time.NewTimer(s.opts.PullMaxLifetime)
	defer lifetime.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-lifetime.C:
			fmt.Fprint(c.Writer, "event: bye\ndata: {}\n\n")
			flusher.Flush()
			return
		case <-keepalive.C:
			if !sess.IsLive() {
				return
			}
			if _, err := fmt.Fprint(c.Writer, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
			// A keepalive that went through proves the transport is not
			// half-open; a quiet stream must only die at the lifetime cap.
			sess.Touch()
		case env := <-chSink.Frames:
			// Typing signals arrive through the sink, never the store.
			if !s.writeSSE(c, flusher, env) {
				return
			}
			sess.Touch()
		case <-poll.C:
			envelopes, next := s.realtime.Poll(cursor, identity)
			for _, env := range envelopes {
				if !s.writeSSE(c, flusher, env) {
					return
				}
			}
			if next != cursor {
				cursor = next
				sess.Touch()
			}
		}
	}
}

func (s *Server) writeSSE(c *gin.Context, flusher http.Flusher, env event.Envelope) bool {
	data, err := json.Marshal(env)
	if err != nil {
		s.log.Error("Envelope not serializable", "type", env.Type, "err", err)
		return true
	}
	if env.ID != "" {
		fmt.Fprintf(c.Writer, "id: %s\n", env.ID)
	}
	if _, err = fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", env.Type, data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
