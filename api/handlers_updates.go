package api

import (
	"log"
	"net/http"
	"time"
)

const updatesWriteWait = 10 * time.Second

// handleUpdates streams reload and clear events over a websocket
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no event emitted after the
	// client is connected is missed
	sub := s.cardsService.SubscribeOnDataUpdate()
	defer sub.Cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Updates: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reads only detect the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Chan():
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(updatesWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Updates: write failed: %v", err)
				return
			}
		}
	}
}
