package seckill

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/flashsale"
	"github.com/unkn0wn-root/flashsale/idgen"
)

// Service is the purchase admission path: gate check, id generation,
// enqueue for persistence. The worker runs separately; Purchase returns as
// soon as the order is admitted and queued.
type Service struct {
	gate  Admitter
	ids   *idgen.Generator
	queue *Queue
	log   flashsale.Logger
	hooks flashsale.Hooks

	purpose string
	now     func() time.Time
}

type ServiceConfig struct {
	Gate      Admitter
	Generator *idgen.Generator
	Queue     *Queue

	Logger flashsale.Logger // nil => NopLogger
	Hooks  flashsale.Hooks  // nil => NopHooks

	// IDPurpose is the id-generator namespace for order ids; "" => "order".
	IDPurpose string
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Gate == nil {
		return nil, fmt.Errorf("seckill: service gate is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("seckill: service id generator is required")
	}
	if cfg.Queue == nil {
		return nil, fmt.Errorf("seckill: service queue is required")
	}
	s := &Service{
		gate:    cfg.Gate,
		ids:     cfg.Generator,
		queue:   cfg.Queue,
		purpose: cfg.IDPurpose,
		now:     time.Now,
	}
	if s.purpose == "" {
		s.purpose = "order"
	}
	s.log = cfg.Logger
	if s.log == nil {
		s.log = flashsale.NopLogger{}
	}
	s.hooks = cfg.Hooks
	if s.hooks == nil {
		s.hooks = flashsale.NopHooks{}
	}
	return s, nil
}

// Purchase admits one purchase attempt for userID against promotionID.
// On success it returns the generated order id; durable persistence
// happens asynchronously. Rejections come back as the exported seckill
// errors; ErrQueueSaturated means overload, retry later.
func (s *Service) Purchase(ctx context.Context, promotionID, userID int64) (int64, error) {
	verdict, err := s.gate.Admit(ctx, promotionID, userID, s.now())
	if err != nil {
		return 0, err
	}
	if verdict != Accepted {
		return 0, verdict.Err()
	}

	orderID, err := s.ids.Next(ctx, s.purpose)
	if err != nil {
		// stock is already decremented; the unit is lost until the
		// promotion is reconciled. Loud on purpose.
		s.log.Error("order id generation failed after admission", flashsale.Fields{
			"promotion": promotionID, "user": userID, "err": err,
		})
		return 0, err
	}

	if err := s.queue.Push(Order{ID: orderID, UserID: userID, PromotionID: promotionID}); err != nil {
		s.hooks.QueueSaturated(promotionID, userID)
		s.log.Warn("order queue saturated", flashsale.Fields{
			"promotion": promotionID, "user": userID, "depth": s.queue.Len(),
		})
		return 0, err
	}
	return orderID, nil
}
