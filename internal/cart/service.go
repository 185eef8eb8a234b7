package cart

import (
	"context"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/utils"

	"go.uber.org/zap"
)

// Service defines the cart operations needed at checkout.
type Service interface {
	// ClearActiveCart empties the cart of the buyer making the current request.
	ClearActiveCart(ctx context.Context) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ClearActiveCart(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ClearActiveCart"),
	)

	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		n, err := s.repo.ClearByUser(ctx, userID)
		if err != nil {
			log.Error("failed to clear user cart", zap.Uint("user_id", userID), zap.Error(err))
			return err
		}
		log.Info("cart cleared", zap.Uint("user_id", userID), zap.Int64("items", n))
		return nil
	}

	if sessionID, ok := utils.GetCartSessionFromContext(ctx); ok {
		n, err := s.repo.ClearBySession(ctx, sessionID)
		if err != nil {
			log.Error("failed to clear guest cart", zap.String("session_id", sessionID), zap.Error(err))
			return err
		}
		log.Info("cart cleared", zap.String("session_id", sessionID), zap.Int64("items", n))
		return nil
	}

	log.Debug("no active cart for request")
	return nil
}
