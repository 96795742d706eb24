package secondfactor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alumnet/internal/secondfactor"
	"alumnet/internal/secondfactor/store/memory"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/requestcontext"
)

type capturingDeliverer struct {
	email string
	codes []string
}

func (d *capturingDeliverer) Deliver(_ context.Context, email, code string) error {
	d.email = email
	d.codes = append(d.codes, code)
	return nil
}

func (d *capturingDeliverer) latest() string {
	return d.codes[len(d.codes)-1]
}

func setup(t *testing.T, opts ...secondfactor.Option) (*secondfactor.Service, *capturingDeliverer) {
	t.Helper()
	deliverer := &capturingDeliverer{}
	return secondfactor.New(memory.New(), deliverer, opts...), deliverer
}

func TestMintAndConsume(t *testing.T) {
	svc, deliverer := setup(t)
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))
	require.Equal(t, "ada@example.edu", deliverer.email)
	require.Len(t, deliverer.latest(), 6)

	require.NoError(t, svc.Consume(ctx, userID, deliverer.latest()))
}

func TestCodeIsSingleUse(t *testing.T) {
	svc, deliverer := setup(t)
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))
	require.NoError(t, svc.Consume(ctx, userID, deliverer.latest()))

	err := svc.Consume(ctx, userID, deliverer.latest())
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
}

func TestWrongCodeRejected(t *testing.T) {
	svc, deliverer := setup(t)
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))

	wrong := "000000"
	if deliverer.latest() == wrong {
		wrong = "000001"
	}
	err := svc.Consume(ctx, userID, wrong)
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))

	// The slot survives a wrong guess; the right code still works.
	require.NoError(t, svc.Consume(ctx, userID, deliverer.latest()))
}

func TestRemintInvalidatesPreviousCode(t *testing.T) {
	svc, deliverer := setup(t)
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))
	first := deliverer.latest()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))
	second := deliverer.latest()

	if first != second {
		err := svc.Consume(ctx, userID, first)
		require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
	}
	require.NoError(t, svc.Consume(ctx, userID, second))
}

func TestExpiredCodeRejected(t *testing.T) {
	svc, deliverer := setup(t, secondfactor.WithTTL(5*time.Minute))
	userID := id.NewUserID()

	minted := time.Now()
	require.NoError(t, svc.Mint(requestcontext.WithTime(context.Background(), minted), userID, "ada@example.edu"))

	late := requestcontext.WithTime(context.Background(), minted.Add(5*time.Minute+time.Second))
	err := svc.Consume(late, userID, deliverer.latest())
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))

	// Expiry destroys the slot; the code cannot recover inside the window.
	early := requestcontext.WithTime(context.Background(), minted)
	err = svc.Consume(early, userID, deliverer.latest())
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
}

func TestAttemptBudgetExhausted(t *testing.T) {
	svc, deliverer := setup(t, secondfactor.WithMaxAttempts(3))
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, svc.Mint(ctx, userID, "ada@example.edu"))

	wrong := "000000"
	if deliverer.latest() == wrong {
		wrong = "000001"
	}
	for i := 0; i < 3; i++ {
		err := svc.Consume(ctx, userID, wrong)
		require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
	}

	// Budget spent: even the correct code is refused and the slot is gone.
	err := svc.Consume(ctx, userID, deliverer.latest())
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
}

func TestNoPendingSlot(t *testing.T) {
	svc, _ := setup(t)
	err := svc.Consume(context.Background(), id.NewUserID(), "123456")
	require.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch))
}
