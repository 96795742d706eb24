package messaging

import (
	"context"
	"log/slog"
	"strings"

	"alumnet/internal/audit"
	"alumnet/internal/cryptox"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/requestcontext"
)

// MailboxSealer is the slice of the credential service provider that
// handles per-identity mailbox keys. The messaging service never sees key
// material.
type MailboxSealer interface {
	SealForRecipient(ctx context.Context, recipient id.UserID, plaintext string) (cryptox.Ciphertext, error)
	OpenForRecipient(ctx context.Context, recipient id.UserID, contentHex, ivHex string) (string, error)
	RecordAudit(ctx context.Context, actorID string, action audit.Action, details string)
}

const maxBodyLength = 10_000

// Service sends and reads mailbox messages. Bodies are sealed under the
// recipient's key at send time and opened per message at read time; a
// message that fails authentication is surfaced as tampered rather than
// failing the whole inbox.
type Service struct {
	store  Store
	sealer MailboxSealer
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, sealer MailboxSealer, opts ...Option) *Service {
	s := &Service{store: store, sealer: sealer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send seals body under the recipient's mailbox key and stores it.
// Sending to an unknown recipient fails with not_found.
func (s *Service) Send(ctx context.Context, sender, recipient id.UserID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "message body is required")
	}
	if len(body) > maxBodyLength {
		return nil, dErrors.New(dErrors.CodeValidation, "message body is too long")
	}
	if sender == recipient {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot message yourself")
	}

	sealed, err := s.sealer.SealForRecipient(ctx, recipient, body)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:          id.NewMessageID(),
		SenderID:    sender,
		RecipientID: recipient,
		ContentHex:  sealed.ContentHex,
		IVHex:       sealed.IVHex,
		SentAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store message")
	}
	return msg, nil
}

// Inbox opens every message addressed to the recipient. Decryption
// failures mark the item tampered and leave a DATA_TAMPER entry; the rest
// of the inbox is unaffected.
func (s *Service) Inbox(ctx context.Context, recipient id.UserID) ([]InboxItem, error) {
	msgs, err := s.store.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
	}
	return s.open(ctx, recipient, msgs), nil
}

// Conversation lists both directions of traffic between the viewer and
// another identity, oldest first. Each body is opened with the mailbox key
// it was sealed under, so a sender reads their own sent messages through
// the recipient's key.
func (s *Service) Conversation(ctx context.Context, viewer, other id.UserID) ([]InboxItem, error) {
	msgs, err := s.store.ListBetween(ctx, viewer, other)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
	}
	return s.open(ctx, viewer, msgs), nil
}

func (s *Service) open(ctx context.Context, viewer id.UserID, msgs []*Message) []InboxItem {
	items := make([]InboxItem, 0, len(msgs))
	for _, msg := range msgs {
		item := InboxItem{ID: msg.ID, SenderID: msg.SenderID, RecipientID: msg.RecipientID, SentAt: msg.SentAt}
		body, err := s.sealer.OpenForRecipient(ctx, msg.RecipientID, msg.ContentHex, msg.IVHex)
		if err != nil {
			item.Tampered = true
			s.sealer.RecordAudit(ctx, viewer.String(), audit.ActionDataTamper,
				"message "+msg.ID.String()+" failed decryption")
			s.logger.WarnContext(ctx, "message failed authentication", "message_id", msg.ID, "error", err)
		} else {
			item.Body = body
		}
		items = append(items, item)
	}
	return items
}
