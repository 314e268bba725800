package mqtt

import "errors"

// Sentinel errors for broker operations. The bridge and daemon check
// these with errors.Is to decide whether a failed publish of a state
// or result payload is retryable.
var (
	// ErrNotConnected is returned when the broker session is down.
	// Command handling pauses until the auto-reconnect succeeds.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the initial broker
	// connection cannot be established at daemon startup.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a state, result or discovery
	// payload cannot be delivered.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when the command topic
	// subscription cannot be established.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed is returned when dropping a command topic
	// subscription fails.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS is returned for QoS levels other than 0, 1 or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned for empty topics and for command
	// topics that do not match the expected segment layout.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrTimeout is returned when a broker operation exceeds its
	// deadline.
	ErrTimeout = errors.New("mqtt: operation timed out")
)
