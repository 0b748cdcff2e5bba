package cart

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"go-storefront/models"
)

// MergeGuestCart folds the guest cart identified by token into the user's
// cart, called once right after a successful login.
//
// The user-cart write happens before the guest-cart delete, so a failure in
// between leaves a retryable state rather than a lost cart. A second call
// with the same token finds no guest cart and is a no-op, which makes a
// retried login safe.
func (s *Service) MergeGuestCart(ctx context.Context, userID, token string) error {
	if token == "" {
		return nil
	}

	guest := GuestIdentity(token)
	user := UserIdentity(userID)

	var guestCart, userCart *models.Cart
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		guestCart, err = s.store.Get(gctx, guest.Key())
		return err
	})
	g.Go(func() error {
		var err error
		userCart, err = s.store.Get(gctx, user.Key())
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if guestCart == nil {
		// Nothing to merge; the caller just clears the cookie.
		return nil
	}

	for attempt := 0; ; attempt++ {
		target := userCart
		if target == nil {
			target = s.emptyCart(user)
			target.CreatedAt = s.now()
		}
		mergeLines(target, guestCart.Lines)
		target.UpdatedAt = s.now()

		err := s.store.Put(ctx, user.Key(), target)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConflict) || attempt+1 >= putRetries {
			return err
		}
		if userCart, err = s.store.Get(ctx, user.Key()); err != nil {
			return err
		}
	}

	return s.store.Delete(ctx, guest.Key())
}

// mergeLines folds lines into dst: quantities add up for lines sharing a
// product id, everything else is appended as-is, snapshots included.
func mergeLines(dst *models.Cart, lines []models.CartLine) {
	for _, line := range lines {
		if existing := dst.Line(line.ProductID); existing != nil {
			existing.Quantity += line.Quantity
			continue
		}
		dst.Lines = append(dst.Lines, line)
	}
}
