package httptransport

import (
	"net/http"
	"time"

	"alumnet/internal/messaging"
	"alumnet/internal/relyingparty"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/httputil"
	"alumnet/pkg/requestcontext"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

type sendMessageResponse struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceMessages, relyingparty.VerbSend)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[sendMessageRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipient, err := id.ParseUserID(req.RecipientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	msg, err := h.messages.Send(ctx, session.UserID, recipient, req.Body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, sendMessageResponse{
		MessageID: msg.ID.String(),
		SentAt:    msg.SentAt,
	})
}

type inboxItemResponse struct {
	MessageID   string    `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body,omitempty"`
	SentAt      time.Time `json:"sent_at"`
	Tampered    bool      `json:"tampered"`
}

// handleInbox serves the recipient's inbox by default; ?with=<user_id>
// switches to the two-way conversation with that identity, which includes
// the caller's own sent messages.
func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.rp.Authorize(ctx, requestcontext.SessionID(ctx), relyingparty.ResourceMessages, relyingparty.VerbReceive)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var items []messaging.InboxItem
	if with := r.URL.Query().Get("with"); with != "" {
		other, err := id.ParseUserID(with)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		items, err = h.messages.Conversation(ctx, session.UserID, other)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	} else {
		items, err = h.messages.Inbox(ctx, session.UserID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	out := make([]inboxItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, inboxItemResponse{
			MessageID:   item.ID.String(),
			SenderID:    item.SenderID.String(),
			RecipientID: item.RecipientID.String(),
			Body:        item.Body,
			SentAt:      item.SentAt,
			Tampered:    item.Tampered,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
