package httpapi

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/watch"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsSendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type changeNotice struct {
	Resource watch.Resource `json:"resource"`
	Action   watch.Action   `json:"action"`
}

// watchSocket streams change notifications for the authenticated identity
// over a websocket. Clients are expected to refetch on notice; the socket
// carries no payloads.
func (s *Server) watchSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	userID := currentUserID(c)

	notices := make(chan changeNotice, wsSendBuffer)
	subs := make([]*watch.Subscription, 0, len(watch.Resources))
	for _, resource := range watch.Resources {
		subs = append(subs, s.bus.Subscribe(resource, userID, func(change watch.Change) {
			select {
			case notices <- changeNotice{Resource: change.Resource, Action: change.Action}:
			default:
				// Slow consumer; it will refetch on the next notice anyway.
			}
		}))
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	defer conn.Close()

	for {
		select {
		case notice := <-notices:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(notice); err != nil {
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}
