// Package checkout orchestrates the purchase flow over the cart and session
// stores. It holds no business state of its own.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrolocal/farmstand/internal/events"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/store"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotBuyer         = errors.New("only buyers can check out")
)

type Service struct {
	Cart     *store.Cart
	Session  *store.Session
	Producer *events.Producer

	// Delay simulates payment processing; no gateway is involved.
	Delay time.Duration
}

// Process runs the full checkout sequence: cart non-empty, buyer session,
// form validation, simulated processing, then the cart is consumed. On any
// failure nothing is mutated.
func (s *Service) Process(ctx context.Context, form Form) (*models.Order, error) {
	items := s.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	user, ok := s.Session.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if user.Role != models.RoleBuyer {
		return nil, ErrNotBuyer
	}

	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	order := &models.Order{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Items:  items,
		Total:  s.Cart.TotalPrice(),
		Shipping: models.ShippingInfo{
			Name:    form.Name,
			Email:   form.Email,
			Address: form.Address,
			City:    form.City,
		},
		CreatedAt: time.Now().UTC(),
	}

	s.Cart.ClearAfterPurchase(ctx)

	s.Producer.Publish(ctx, events.TopicOrderEvents, user.ID, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  user.ID,
		"total":    order.Total,
	})

	return order, nil
}
