package messaging

import (
	"context"

	id "alumnet/pkg/domain"
)

// Store persists sealed messages. Both listings return messages in send
// order, oldest first. ListBetween matches either direction of the pair.
type Store interface {
	Append(ctx context.Context, msg *Message) error
	ListByRecipient(ctx context.Context, recipient id.UserID) ([]*Message, error)
	ListBetween(ctx context.Context, a, b id.UserID) ([]*Message, error)
}
