// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rpc

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// ServeWebSocket answers the same protocol over a WebSocket endpoint at
// /rpc, one JSON message per request and per response, for attaching an
// editor on another machine. Blocks until ctx is canceled or the listener
// fails.
func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.handleSocket)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	color.Green("%s >> listening on ws://%s/rpc\n", time.Now().Format(time.ANSIC), addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleSocket upgrades one connection and answers its requests until the
// client hangs up.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection to websocket: %v", err)
		return
	}
	defer conn.Close()

	client := uuid.New()
	color.Green("%s >> client %s connected\n", time.Now().Format(time.ANSIC), client)

	for {
		_, line, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Closing connection with ID: %v", client)
			return
		}
		resp := s.Handle(r.Context(), line)
		if err := conn.WriteJSON(&resp); err != nil {
			log.Printf("Error sending response to client %v: %v", client, err)
			return
		}
	}
}
