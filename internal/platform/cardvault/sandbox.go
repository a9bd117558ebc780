package cardvault

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fernpay/cashier/pkg/tool"
)

// Nonce prefixes understood by the sandbox. A real vault exchanges nonces
// minted by its JS SDK; the sandbox derives the card from the nonce itself.
const (
	nonceOKPrefix      = "tok_"
	nonceDeclinePrefix = "tok_decline_"
)

type sandboxCard struct {
	card     Card
	declines bool
}

// Sandbox is an in-memory Vault used in dev and tests. Charges are recorded
// per idempotency key: a retried request returns the settled original, while
// a declined attempt may be charged again once the card is fixed.
type Sandbox struct {
	mu         sync.Mutex
	signingKey []byte
	cards      map[string]*sandboxCard
	charges    map[string]*Charge
}

func NewSandbox(signingKey string) *Sandbox {
	return &Sandbox{
		signingKey: []byte(signingKey),
		cards:      map[string]*sandboxCard{},
		charges:    map[string]*Charge{},
	}
}

func (s *Sandbox) Charge(ctx context.Context, req *ChargeRequest) (*Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// only a settled charge is replayed; a declined one never reads as money
	// collected, the retry below supersedes it
	if prior, ok := s.charges[req.IdempotencyKey]; ok && prior.Status == ChargeStatusSettled {
		return prior, nil
	}

	card, ok := s.cards[req.UserID]
	if !ok {
		return nil, ErrNoCard
	}

	charge := &Charge{
		ID:             tool.GenerateUUIDV7(),
		IdempotencyKey: req.IdempotencyKey,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         ChargeStatusSettled,
		CreatedAt:      time.Now(),
	}
	if card.declines {
		charge.Status = ChargeStatusDeclined
		s.charges[req.IdempotencyKey] = charge
		return nil, ErrDeclined
	}
	s.charges[req.IdempotencyKey] = charge
	return charge, nil
}

func (s *Sandbox) FindCharge(ctx context.Context, idempotencyKey string) (*Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.charges[idempotencyKey]; ok {
		return c, nil
	}
	return nil, ErrChargeNotFound
}

func (s *Sandbox) GenerateClientToken(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(15 * time.Minute).Unix(),
		"jti": tool.GenerateUUIDV7(),
	})
	return token.SignedString(s.signingKey)
}

func (s *Sandbox) UpdateCard(ctx context.Context, userID, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	declines := strings.HasPrefix(nonce, nonceDeclinePrefix)
	last4 := "4242"
	if n := strings.TrimPrefix(strings.TrimPrefix(nonce, nonceDeclinePrefix), nonceOKPrefix); len(n) >= 4 {
		last4 = n[len(n)-4:]
	}
	s.cards[userID] = &sandboxCard{
		card: Card{
			Brand:    "visa",
			Last4:    last4,
			ExpMonth: 12,
			ExpYear:  time.Now().Year() + 3,
		},
		declines: declines,
	}
	return nil
}

func (s *Sandbox) GetCard(ctx context.Context, userID string) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[userID]; ok {
		card := c.card
		return &card, nil
	}
	return nil, ErrNoCard
}
