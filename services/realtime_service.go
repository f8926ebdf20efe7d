package services

import (
	"context"
	"log/slog"

	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/observability"
	"center-hub/runtime"
	"center-hub/sink"
	"center-hub/store"
)

// StatsReport is the payload of the diagnostic endpoint.
type StatsReport struct {
	Store    store.Stats                 `json:"store"`
	Delivery observability.RealtimeStats `json:"delivery"`
	Sessions int                         `json:"sessions"`
	Rooms    int                         `json:"rooms"`
}

// RealtimeService is the facade the transport layer talks to. It owns no
// transport code: the web layer brings the socket or stream and gets back a
// session plus the channel sink to drain.
type RealtimeService struct {
	log        *slog.Logger
	store      *store.EventStore
	registry   *runtime.Registry
	dispatcher *runtime.Dispatcher
	relay      *runtime.TypingRelay
	monitor    *observability.Monitor
	bufferSize int
}

func NewRealtimeService(log *slog.Logger, eventStore *store.EventStore,
	registry *runtime.Registry, dispatcher *runtime.Dispatcher,
	relay *runtime.TypingRelay, monitor *observability.Monitor,
	connectionBufferSize int) *RealtimeService {
	return &RealtimeService{
		log:        log,
		store:      eventStore,
		registry:   registry,
		dispatcher: dispatcher,
		relay:      relay,
		monitor:    monitor,
		bufferSize: connectionBufferSize,
	}
}

// OpenSession runs the post-credential half of the handshake: the caller has
// already validated the bearer token. The session comes back Authenticated;
// the transport calls GoLive once the socket is open or the stream headers
// are flushed.
func (s *RealtimeService) OpenSession(mode runtime.Mode, identity domain.Identity) (*runtime.Session, *sink.ChannelSink, error) {
	chSink := sink.NewChannelSink(s.bufferSize)
	sess := runtime.NewSession(mode, chSink)
	if err := sess.Authenticate(identity); err != nil {
		sess.Close()
		return nil, nil, err
	}
	s.registry.Register(sess)
	s.monitor.IncrSessionsOpened()
	s.log.Debug("Session opened",
		"session_id", sess.ID, "user_id", identity.UserID, "mode", string(mode))
	return sess, chSink, nil
}

// CloseSession tears one session down and removes every trace of it.
func (s *RealtimeService) CloseSession(sessionID string) {
	if sess, ok := s.registry.Get(sessionID); ok {
		s.dispatcher.Drop(sess)
	}
}

func (s *RealtimeService) JoinRoom(room domain.RoomKey, sessionID string) {
	s.registry.Join(room, sessionID)
}

func (s *RealtimeService) LeaveRoom(room domain.RoomKey, sessionID string) {
	s.registry.Leave(room, sessionID)
}

// Poll serves pull mode: all visible events strictly after the cursor, plus
// the next cursor to hand back. With nothing new, the client's own cursor is
// echoed so it can simply resubmit it.
func (s *RealtimeService) Poll(cursor string, identity domain.Identity) ([]event.Envelope, string) {
	records := s.store.Query(cursor, identity)
	envelopes := make([]event.Envelope, 0, len(records))
	next := cursor
	for _, rec := range records {
		env, err := rec.Envelope()
		if err != nil {
			s.log.Error("Skipping record with no wire shape", "id", rec.ID, "err", err)
			continue
		}
		envelopes = append(envelopes, env)
		next = rec.ID
	}
	return envelopes, next
}

func (s *RealtimeService) SetTyping(ctx context.Context, room domain.RoomKey, who domain.Identity, typing bool) {
	if typing {
		s.relay.StartTyping(ctx, room, who)
		return
	}
	s.relay.StopTyping(ctx, room, who)
}

// PublishCenterUpdated announces a center profile change to its room.
func (s *RealtimeService) PublishCenterUpdated(ctx context.Context, e event.CenterUpdated) store.Record {
	return s.dispatcher.Publish(ctx, e)
}

// PublishContactMessage announces a visitor inquiry to the center's admin.
func (s *RealtimeService) PublishContactMessage(ctx context.Context, e event.ContactMessageCreated) store.Record {
	return s.dispatcher.Publish(ctx, e)
}

// PublishAnnouncement broadcasts a site-wide notice to every live session.
func (s *RealtimeService) PublishAnnouncement(ctx context.Context, e event.AnnouncementCreated) store.Record {
	return s.dispatcher.Publish(ctx, e)
}

func (s *RealtimeService) Stats() StatsReport {
	sessions, rooms := s.registry.Counts()
	return StatsReport{
		Store:    s.store.Stats(),
		Delivery: s.monitor.Snapshot(),
		Sessions: sessions,
		Rooms:    rooms,
	}
}
