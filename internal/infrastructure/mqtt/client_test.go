package mqtt

import (
	"errors"
	"strings"
	"testing"
)

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

func TestPublishValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "escpos/state/kitchen", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "escpos/state/kitchen", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}
	handler := func(topic string, payload []byte) error { return nil }

	if err := client.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("escpos/command/+/+", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Subscribe("escpos/command/+/+", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v, want ErrSubscribeFailed", err)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}
	if client.HasSubscription("escpos/command/+/+") {
		t.Error("HasSubscription() = true for untracked topic")
	}
}

func TestBuildStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("escposd")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload missing status: %s", online)
	}
	if !strings.Contains(online, `"client_id":"escposd"`) {
		t.Errorf("online payload missing client_id: %s", online)
	}

	offline := buildOfflinePayload("escposd")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload missing status: %s", offline)
	}
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload missing reason: %s", offline)
	}
}
