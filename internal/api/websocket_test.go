package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
)

func wsURL(ts *httptest.Server, ticket string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws?ticket=" + ticket
}

func fetchTicket(t *testing.T, ts *httptest.Server, token string) string {
	t.Helper()
	resp := doRequest(t, ts, token, http.MethodPost, "/api/v1/auth/ws-ticket", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ws-ticket status = %d, want 200", resp.StatusCode)
	}
	body := decodeMap(t, resp)
	ticket, _ := body["ticket"].(string)
	if ticket == "" {
		t.Fatal("expected non-empty ticket")
	}
	return ticket
}

func dialWS(t *testing.T, ts *httptest.Server, ticket string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, ticket), nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWSMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	//nolint:errcheck // test deadline
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading websocket message: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decoding websocket message: %v", err)
	}
	return msg
}

func TestWebSocket_RequiresTicket(t *testing.T) {
	_, ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		ticket string
	}{
		{"missing ticket", ""},
		{"bogus ticket", "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:bodyclose // error path; no response body on dial failure
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, tt.ticket), nil)
			if err == nil {
				t.Fatal("expected dial to fail without a valid ticket")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401 handshake response, got %v", resp)
			}
			if resp != nil {
				resp.Body.Close()
			}
		})
	}
}

func TestWebSocket_TicketIsSingleUse(t *testing.T) {
	_, ts, _ := newTestServer(t)
	token := login(t, ts)
	ticket := fetchTicket(t, ts, token)

	dialWS(t, ts, ticket)

	//nolint:bodyclose // error path; no response body on dial failure
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, ticket), nil)
	if err == nil {
		t.Fatal("expected second dial with the same ticket to fail")
	}
	if resp != nil {
		resp.Body.Close()
	}
}

func TestWebSocket_SubscribeAndBroadcast(t *testing.T) {
	s, ts, _ := newTestServer(t)
	token := login(t, ts)
	conn := dialWS(t, ts, fetchTicket(t, ts, token))

	sub := WSMessage{
		Type: WSTypeSubscribe,
		ID:   "1",
		Payload: WSSubscribePayload{
			Channels: []string{ChannelJobCompleted},
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("sending subscribe: %v", err)
	}

	reply := readWSMessage(t, conn)
	if reply.Type != WSTypeResponse {
		t.Fatalf("reply type = %s, want %s", reply.Type, WSTypeResponse)
	}

	s.hub.Broadcast(ChannelJobCompleted, history.Job{
		ID:        "job-1",
		PrinterID: "kitchen",
		Operation: "print_text",
		Status:    history.StatusOK,
	})

	event := readWSMessage(t, conn)
	if event.Type != WSTypeEvent {
		t.Fatalf("event type = %s, want %s", event.Type, WSTypeEvent)
	}
	if event.EventType != ChannelJobCompleted {
		t.Errorf("event_type = %s, want %s", event.EventType, ChannelJobCompleted)
	}
	payload, ok := event.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %v, want object", event.Payload)
	}
	if payload["printer_id"] != "kitchen" {
		t.Errorf("payload printer_id = %v, want kitchen", payload["printer_id"])
	}
}

func TestWebSocket_UnsubscribedChannelNotDelivered(t *testing.T) {
	s, ts, _ := newTestServer(t)
	token := login(t, ts)
	conn := dialWS(t, ts, fetchTicket(t, ts, token))

	sub := WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "1",
		Payload: WSSubscribePayload{Channels: []string{ChannelPrinterStatus}},
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("sending subscribe: %v", err)
	}
	readWSMessage(t, conn)

	// Broadcast on a channel the client has not subscribed to, then on the
	// subscribed one. Only the second arrives.
	s.hub.Broadcast(ChannelJobCompleted, history.Job{ID: "job-1"})
	s.hub.Broadcast(ChannelPrinterStatus, statusEvent{PrinterID: "kitchen", Online: true})

	event := readWSMessage(t, conn)
	if event.EventType != ChannelPrinterStatus {
		t.Errorf("event_type = %s, want %s", event.EventType, ChannelPrinterStatus)
	}
}

func TestWebSocket_Ping(t *testing.T) {
	_, ts, _ := newTestServer(t)
	token := login(t, ts)
	conn := dialWS(t, ts, fetchTicket(t, ts, token))

	if err := conn.WriteJSON(WSMessage{Type: WSTypePing, ID: "7"}); err != nil {
		t.Fatalf("sending ping: %v", err)
	}
	reply := readWSMessage(t, conn)
	if reply.Type != WSTypePong {
		t.Errorf("reply type = %s, want %s", reply.Type, WSTypePong)
	}
	if reply.ID != "7" {
		t.Errorf("reply id = %s, want 7", reply.ID)
	}
}
