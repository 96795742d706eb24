package messaging_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"alumnet/internal/audit"
	"alumnet/internal/credential"
	credmemory "alumnet/internal/credential/store/memory"
	"alumnet/internal/messaging"
	msgmemory "alumnet/internal/messaging/store/memory"
	"alumnet/internal/registration"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingSink) Emit(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingSink) byAction(action audit.Action) []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Entry
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	svc     *messaging.Service
	store   *msgmemory.InMemoryStore
	csp     *credential.Service
	sink    *recordingSink
	student id.UserID
	alumna  id.UserID
}

func (s *ServiceSuite) SetupTest() {
	s.sink = &recordingSink{}
	s.store = msgmemory.New()

	s.csp = credential.New(credmemory.New(), s.sink)
	ra := registration.New(s.csp)
	s.svc = messaging.New(s.store, s.csp)

	s.student = s.register(ra, "sam@example.edu", "student")
	s.alumna = s.register(ra, "ada@example.edu", "alumni")
}

func (s *ServiceSuite) register(ra *registration.Service, email, role string) id.UserID {
	cred, err := ra.ProcessRegistration(context.Background(), registration.Submission{
		Name:     "Test Person",
		Email:    email,
		Password: "correct horse battery",
		Role:     role,
	})
	s.Require().NoError(err)
	return cred.ID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestSendStoresCiphertextOnly() {
	msg, err := s.svc.Send(context.Background(), s.student, s.alumna, "hello from a student")
	s.Require().NoError(err)

	s.NotEmpty(msg.ContentHex)
	s.NotEmpty(msg.IVHex)
	s.NotContains(msg.ContentHex, "hello")

	stored, err := s.store.ListByRecipient(context.Background(), s.alumna)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.NotContains(stored[0].ContentHex, "hello")
}

func (s *ServiceSuite) TestInboxRoundtrip() {
	ctx := context.Background()
	_, err := s.svc.Send(ctx, s.student, s.alumna, "first message")
	s.Require().NoError(err)
	_, err = s.svc.Send(ctx, s.student, s.alumna, "second message")
	s.Require().NoError(err)

	items, err := s.svc.Inbox(ctx, s.alumna)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("first message", items[0].Body)
	s.Equal("second message", items[1].Body)
	s.False(items[0].Tampered)
}

func (s *ServiceSuite) TestConversationShowsBothDirections() {
	ctx := context.Background()
	_, err := s.svc.Send(ctx, s.student, s.alumna, "could you mentor me?")
	s.Require().NoError(err)
	_, err = s.svc.Send(ctx, s.alumna, s.student, "happy to, pick a topic")
	s.Require().NoError(err)

	// The student sees their own sent message, opened through the
	// recipient's mailbox key.
	items, err := s.svc.Conversation(ctx, s.student, s.alumna)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal(s.student, items[0].SenderID)
	s.Equal(s.alumna, items[0].RecipientID)
	s.Equal("could you mentor me?", items[0].Body)
	s.Equal("happy to, pick a topic", items[1].Body)
	s.False(items[0].Tampered)

	// Same view from the other side.
	items, err = s.svc.Conversation(ctx, s.alumna, s.student)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("could you mentor me?", items[0].Body)
}

func (s *ServiceSuite) TestConversationExcludesThirdParties() {
	ctx := context.Background()
	bystander := s.register(registration.New(s.csp), "zoe@example.edu", "alumni")

	_, err := s.svc.Send(ctx, s.student, s.alumna, "between us")
	s.Require().NoError(err)
	_, err = s.svc.Send(ctx, s.student, bystander, "different thread")
	s.Require().NoError(err)

	items, err := s.svc.Conversation(ctx, s.student, s.alumna)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("between us", items[0].Body)
}

func (s *ServiceSuite) TestTamperedMessageFlaggedWithoutFailingInbox() {
	ctx := context.Background()
	_, err := s.svc.Send(ctx, s.student, s.alumna, "intact message")
	s.Require().NoError(err)
	tampered, err := s.svc.Send(ctx, s.student, s.alumna, "doomed message")
	s.Require().NoError(err)

	// Flip a ciphertext byte in place.
	stored, err := s.store.ListByRecipient(ctx, s.alumna)
	s.Require().NoError(err)
	s.Require().Len(stored, 2)
	corrupted := *stored[1]
	corrupted.ContentHex = "00" + corrupted.ContentHex[2:]

	fresh := msgmemory.New()
	s.Require().NoError(fresh.Append(ctx, stored[0]))
	s.Require().NoError(fresh.Append(ctx, &corrupted))
	svc := messaging.New(fresh, s.csp)

	items, err := svc.Inbox(ctx, s.alumna)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("intact message", items[0].Body)
	s.True(items[1].Tampered)
	s.Empty(items[1].Body)

	tampers := s.sink.byAction(audit.ActionDataTamper)
	s.Require().Len(tampers, 1)
	s.Contains(tampers[0].Details, tampered.ID.String())
}

func (s *ServiceSuite) TestSendValidation() {
	ctx := context.Background()

	_, err := s.svc.Send(ctx, s.student, s.alumna, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Send(ctx, s.student, s.student, "note to self")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Send(ctx, s.student, s.alumna, strings.Repeat("a", 10_001))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSendToUnknownRecipient() {
	_, err := s.svc.Send(context.Background(), s.student, id.NewUserID(), "anyone there")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
