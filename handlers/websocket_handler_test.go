package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/realtime"
)

func dialWS(t *testing.T, env *apiEnv) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("handshake status = %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForRoom(t *testing.T, env *apiEnv, room string, size int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.RoomSize(room) != size {
		if time.Now().After(deadline) {
			t.Fatalf("room %s has %d sessions, want %d", room, env.hub.RoomSize(room), size)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) realtime.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg realtime.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return msg
}

func TestWebSocketReceivesRoomBroadcasts(t *testing.T) {
	env := newAPIEnv(t)
	env.createState(t, 7, models.StageAction, 1)
	env.createState(t, 9, models.StageAction, 1)

	viewer := dialWS(t, env)
	if err := viewer.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := viewer.WriteJSON(map[string]interface{}{"type": "join-save", "payload": map[string]int{"saveGameId": 7}}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	waitForRoom(t, env, "save-7", 1)

	if status, body := env.do(t, http.MethodPost, "/api/saves/9/advance-stage", ""); status != http.StatusOK {
		t.Fatalf("advance save 9 = %d %v", status, body)
	}
	if status, body := env.do(t, http.MethodPost, "/api/saves/7/advance-stage", ""); status != http.StatusOK {
		t.Fatalf("advance save 7 = %d %v", status, body)
	}

	msg := readMessage(t, viewer)
	if msg.Type != realtime.TypeStageChanged || msg.RoomID != "save-7" {
		t.Fatalf("message = %+v", msg)
	}
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	var changed struct {
		SaveGameID int    `json:"saveGameId"`
		GameStage  string `json:"gameStage"`
	}
	if err := json.Unmarshal(payload, &changed); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if changed.SaveGameID != 7 || changed.GameStage != "MATCHDAY" {
		t.Fatalf("payload = %+v", changed)
	}

	if err := viewer.WriteJSON(map[string]interface{}{"type": "leave-save", "payload": "7"}); err != nil {
		t.Fatalf("write leave: %v", err)
	}
	waitForRoom(t, env, "save-7", 0)
}

func TestWebSocketSessionLeavesRoomsOnClose(t *testing.T) {
	env := newAPIEnv(t)

	viewer := dialWS(t, env)
	if err := viewer.WriteJSON(map[string]interface{}{"type": "join-save", "payload": 7}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	waitForRoom(t, env, "save-7", 1)

	viewer.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	viewer.Close()
	waitForRoom(t, env, "save-7", 0)

	if err := env.hub.Publish(context.Background(), realtime.SaveGameRoom(7), realtime.Message{Type: realtime.TypeMatchEvent}); err != nil {
		t.Fatalf("publish to empty room: %v", err)
	}
}

func TestWebSocketAcceptsPaddedJoinFrame(t *testing.T) {
	env := newAPIEnv(t)

	viewer := dialWS(t, env)
	frame := map[string]interface{}{
		"type":    "join-save",
		"payload": map[string]interface{}{"saveGameId": 7, "client": strings.Repeat("x", 1500)},
	}
	if err := viewer.WriteJSON(frame); err != nil {
		t.Fatalf("write join: %v", err)
	}
	waitForRoom(t, env, "save-7", 1)
}
