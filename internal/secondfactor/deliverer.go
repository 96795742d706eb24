package secondfactor

import (
	"context"
	"log/slog"
)

// LogDeliverer writes minted codes to the operator log. It stands in for a
// mail or SMS gateway in environments where none is configured.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(ctx context.Context, email, code string) error {
	d.logger.InfoContext(ctx, "verification code issued", "email", email, "code", code)
	return nil
}

// FallbackDeliverer tries the primary channel and falls back to a second
// one when it fails. A broken mail gateway must degrade delivery, never
// disable the second factor.
type FallbackDeliverer struct {
	primary  Deliverer
	fallback Deliverer
	logger   *slog.Logger
}

func NewFallbackDeliverer(primary, fallback Deliverer, logger *slog.Logger) *FallbackDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackDeliverer{primary: primary, fallback: fallback, logger: logger}
}

func (d *FallbackDeliverer) Deliver(ctx context.Context, email, code string) error {
	err := d.primary.Deliver(ctx, email, code)
	if err == nil {
		return nil
	}
	d.logger.WarnContext(ctx, "primary code delivery failed, using fallback", "email", email, "error", err)
	return d.fallback.Deliver(ctx, email, code)
}
