package order

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
)

//go:generate mockgen -source=payer.go -package order -destination payer_mock.go Payer
type Payer interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

type stripePayer struct {
	apiKey string
}

func NewPayer(apiKey string) Payer {
	stripe.Key = apiKey
	return &stripePayer{
		apiKey: apiKey,
	}
}

func (p *stripePayer) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	if p.apiKey == "" {
		return stripe.CheckoutSession{}, myerrors.NewUnavailableError(fmt.Errorf("card payments are not configured"))
	}

	params.Context = ctx
	session, err := session.New(&params)
	if err != nil {
		return stripe.CheckoutSession{}, myerrors.NewInvalidInputError(fmt.Errorf("error creating stripe session: %s", err))
	}

	return *session, nil
}

// ExpireCheckoutSession makes an open session unpayable
func (p *stripePayer) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	if p.apiKey == "" {
		return myerrors.NewUnavailableError(fmt.Errorf("card payments are not configured"))
	}

	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx
	_, err := session.Expire(sessionID, params)
	if err != nil {
		return fmt.Errorf("error expiring stripe session %s: %w", sessionID, err)
	}

	return nil
}
