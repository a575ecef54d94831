// Package jobtest builds journey worker dependencies backed by an
// in-memory Redis for handler tests.
package jobtest

import (
	"context"
	"testing"
	"time"

	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Env is a session manager on miniredis with zero screen delays and a
// fixed lender decision.
type Env struct {
	Deps     journeyjob.Deps
	Sessions *session.Manager
	Store    *session.RedisStore
	Redis    *miniredis.Miniredis
	Clock    clockwork.FakeClock
}

func New(t testing.TB, outcome lender.Outcome) *Env {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewTestLogger(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC))
	store := session.NewRedisStore(client, "journey:session:", time.Hour)
	sessions := session.NewManager(store, session.NopRecorder{}, wizard.Deps{
		Clock:   clock,
		Decider: lender.Fixed(outcome),
	}, log)

	return &Env{
		Deps:     journeyjob.Deps{Sessions: sessions, Logger: log},
		Sessions: sessions,
		Store:    store,
		Redis:    mr,
		Clock:    clock,
	}
}

// Seed starts a journey for id and runs steps on it.
func (e *Env) Seed(t testing.TB, id string, steps ...func(context.Context, *wizard.Journey) error) {
	t.Helper()
	_, err := e.Sessions.Begin(context.Background(), id, func(ctx context.Context, j *wizard.Journey) error {
		if err := j.Start(ctx); err != nil {
			return err
		}
		for _, step := range steps {
			if err := step(ctx, j); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed journey %s: %v", id, err)
	}
}

// Step helpers advance a freshly started journey. Each one includes the
// steps before it.

func ThroughPAN(ctx context.Context, j *wizard.Journey) error {
	if err := j.ConfirmPreQualification(ctx); err != nil {
		return err
	}
	_, err := j.SubmitPAN(ctx, "ABCDE1234F")
	return err
}

func ThroughOffers(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughPAN(ctx, j); err != nil {
		return err
	}
	_, err := j.MatchOffers(ctx)
	return err
}

func ThroughOfferSelection(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughOffers(ctx, j); err != nil {
		return err
	}
	_, err := j.SelectOffer(ctx, 1)
	return err
}

func ThroughKYC(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughOfferSelection(ctx, j); err != nil {
		return err
	}
	if err := j.ProceedKYC(ctx); err != nil {
		return err
	}
	for _, name := range []string{"id-front.jpg", "id-back.jpg", "address-front.jpg", "address-back.jpg"} {
		if err := j.UploadDocument(ctx, &kyc.FileRef{Name: name, Size: 1024, ContentType: "image/jpeg"}); err != nil {
			return err
		}
	}
	return j.ContinueFromKYC(ctx)
}

func ThroughLender(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughKYC(ctx, j); err != nil {
		return err
	}
	if _, err := j.AwaitLenderDecision(ctx); err != nil {
		return err
	}
	return j.ContinueFromLender(ctx)
}

func ThroughESign(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughLender(ctx, j); err != nil {
		return err
	}
	j.SetTermsAccepted(true)
	return j.ProceedToESign(ctx)
}

func ThroughOTP(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughESign(ctx, j); err != nil {
		return err
	}
	_, err := j.VerifyESignOTP(ctx, "123456")
	return err
}

func ThroughMandate(ctx context.Context, j *wizard.Journey) error {
	if err := ThroughOTP(ctx, j); err != nil {
		return err
	}
	_, err := j.SubmitBankMandate(ctx, "123456789012", "HDFC0001234")
	return err
}
