package realtime

import "time"

// Inbound message types understood by the socket handler.
const (
	TypePing              = "ping"
	TypeSubscribeDocs     = "subscribe_documents"
	TypeGetDocumentStatus = "get_document_status"
)

// Outbound message types.
const (
	TypeConnectionEstablished = "connection_established"
	TypePong                  = "pong"
	TypeSubscriptionConfirmed = "subscription_confirmed"
	TypeDocumentStatus        = "document_status"
	TypeDocumentUpdate        = "document_update"
	TypeError                 = "error"
)

// InboundMessage is the JSON envelope clients send over the socket.
type InboundMessage struct {
	Type       string `json:"type"`
	DocumentID string `json:"documentId,omitempty"`
}

// OutboundMessage is the generic envelope for per-connection replies.
type OutboundMessage struct {
	Type         string `json:"type"`
	Message      string `json:"message,omitempty"`
	ConnectionID string `json:"connectionId,omitempty"`
	DocumentID   string `json:"documentId,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// DocumentUpdate is a status-change event from the document-processing
// pipeline. Each event carries the full current status, so clients can
// apply last-write-wins by timestamp regardless of arrival order.
type DocumentUpdate struct {
	DocumentID             string `json:"documentId"`
	Status                 string `json:"status"`
	OCRResult              any    `json:"ocrResult,omitempty"`
	Error                  string `json:"error,omitempty"`
	HoktusDecision         string `json:"hoktusDecision,omitempty"`
	HoktusProcessingStatus string `json:"hoktusProcessingStatus,omitempty"`
	DocumentType           string `json:"documentType,omitempty"`
	Observations           any    `json:"observations,omitempty"`
	Timestamp              string `json:"timestamp,omitempty"`
}

// documentUpdateMessage is the push envelope broadcast to connections.
type documentUpdateMessage struct {
	Type string `json:"type"`
	DocumentUpdate
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// handleInbound routes one client message to its reply. A nil reply
// means no response is sent.
func handleInbound(msg InboundMessage, now time.Time) *OutboundMessage {
	switch msg.Type {
	case TypePing:
		return &OutboundMessage{
			Type:      TypePong,
			Timestamp: timestamp(now),
		}
	case TypeSubscribeDocs:
		return &OutboundMessage{
			Type:      TypeSubscriptionConfirmed,
			Message:   "Subscribed to document processing updates",
			Timestamp: timestamp(now),
		}
	case TypeGetDocumentStatus:
		if msg.DocumentID == "" {
			return &OutboundMessage{
				Type:      TypeError,
				Message:   "Document ID is required for status request",
				Timestamp: timestamp(now),
			}
		}
		// Acknowledgment only: the authoritative status arrives by push
		// from the processing pipeline.
		return &OutboundMessage{
			Type:       TypeDocumentStatus,
			DocumentID: msg.DocumentID,
			Message:    "Document status requested",
			Timestamp:  timestamp(now),
		}
	default:
		return &OutboundMessage{
			Type:      TypeError,
			Message:   "Unknown message type: " + msg.Type,
			Timestamp: timestamp(now),
		}
	}
}
