// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rpc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSocket(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(s.handleSocket))
	t.Cleanup(srv.Close)

	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req string) string {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(req)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestWebSocketDispatch(t *testing.T) {
	s, remote := newTestServer(t)
	remote.doc = sampleDoc()
	conn := dialSocket(t, s)

	assert.JSONEq(t, `{"id":1,"result":{"pong":true}}`, roundTrip(t, conn, `{"id":1,"method":"ping"}`))
	assert.Contains(t, roundTrip(t, conn, `{"id":2,"method":"get","params":["doc-1"]}`), `"title":"Team Charter"`)
}

func TestWebSocketParseErrorKeepsConnection(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialSocket(t, s)

	assert.JSONEq(t, `{"id":null,"error":{"code":-32700,"message":"Parse error"}}`, roundTrip(t, conn, `{bad`))

	// The connection survives a malformed frame.
	assert.JSONEq(t, `{"id":3,"result":{"pong":true}}`, roundTrip(t, conn, `{"id":3,"method":"ping"}`))
}
