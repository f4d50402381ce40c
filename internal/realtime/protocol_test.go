package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInbound(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		msg      InboundMessage
		wantType string
		wantDoc  string
	}{
		{
			name:     "ping",
			msg:      InboundMessage{Type: TypePing},
			wantType: TypePong,
		},
		{
			name:     "subscribe",
			msg:      InboundMessage{Type: TypeSubscribeDocs},
			wantType: TypeSubscriptionConfirmed,
		},
		{
			name:     "document status",
			msg:      InboundMessage{Type: TypeGetDocumentStatus, DocumentID: "doc-1"},
			wantType: TypeDocumentStatus,
			wantDoc:  "doc-1",
		},
		{
			name:     "document status without id",
			msg:      InboundMessage{Type: TypeGetDocumentStatus},
			wantType: TypeError,
		},
		{
			name:     "unknown type",
			msg:      InboundMessage{Type: "bogus"},
			wantType: TypeError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reply := handleInbound(tt.msg, now)
			require.NotNil(t, reply)
			assert.Equal(t, tt.wantType, reply.Type)
			assert.Equal(t, tt.wantDoc, reply.DocumentID)
			assert.Equal(t, "2026-08-31T12:00:00Z", reply.Timestamp)
		})
	}
}
