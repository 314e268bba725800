package bridge

import "time"

// Operation names accepted on command topics.
const (
	OpPrintText     = "print_text"
	OpPrintTextUTF8 = "print_text_utf8"
	OpPrintQR       = "print_qr"
	OpPrintBarcode  = "print_barcode"
	OpPrintImage    = "print_image"
	OpFeed          = "feed"
	OpCut           = "cut"
	OpBeep          = "beep"
)

// BroadcastTarget fans a command out to every registered printer.
const BroadcastTarget = "all"

// Ack error codes.
const (
	CodePrinterNotFound  = "PRINTER_NOT_FOUND"
	CodeUnknownOperation = "UNKNOWN_OPERATION"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeOperationFailed  = "OPERATION_FAILED"
)

// Ack is published after every command, success or failure.
type Ack struct {
	PrinterID string    `json:"printer_id"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// feedPayload is the command body for feed.
type feedPayload struct {
	Lines int `json:"lines"`
}

// cutPayload is the command body for cut.
type cutPayload struct {
	Mode string `json:"mode"`
}

// beepPayload is the command body for beep.
type beepPayload struct {
	Times    int `json:"times"`
	Duration int `json:"duration"`
}

// State payload values published retained to the printer state topic.
const (
	StateOnline  = "online"
	StateOffline = "offline"
)
