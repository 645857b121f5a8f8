package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLiveFeedBroadcast(t *testing.T) {
	env := newTestEnv(t)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	resp.Body.Close()

	// Creating an announcement must push an event to connected clients.
	createResp := postJSON(t, env.server.URL+"/api/announcements", AnnouncementRequest{
		TrainNumber: "12137",
		Platform:    "4",
		Status:      "arriving",
	})
	createResp.Body.Close()
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event LiveEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Event != "announcement.created" {
		t.Errorf("event = %q, want announcement.created", event.Event)
	}
}

func TestLiveNotifyWithoutClients(t *testing.T) {
	live := NewLiveHandler()

	if live.ClientCount() != 0 {
		t.Errorf("fresh handler has %d clients", live.ClientCount())
	}

	// Notify with no clients must not block or panic.
	live.Notify("announcement.created", map[string]string{"id": "x"})
}
