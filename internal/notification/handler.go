package notification

import (
	"context"
	"encoding/json"

	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/example/clothing-store/internal/state"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Mailer sends the new-order notice.
type Mailer interface {
	SendOrderNotice(to string, o order.Order) error
}

// Handler processes store events for the shop owner
type Handler struct {
	mailer    Mailer
	shopEmail string
	logger    logrus.FieldLogger
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer, shopEmail string, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		mailer:    mailer,
		shopEmail: shopEmail,
		logger:    logger.WithField("component", "notifier"),
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event state.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return errors.Wrap(err, "decode event")
	}

	switch event.Type {
	case state.EventOrderPlaced:
		var e state.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrapf(err, "decode %s", event.Type)
		}
		return h.handleOrderPlaced(e.Order)
	case state.EventProductAdded:
		var e state.ProductAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrapf(err, "decode %s", event.Type)
		}
		h.checkStock(e.Product)
	case state.EventProductUpdated:
		var e state.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrapf(err, "decode %s", event.Type)
		}
		h.checkStock(e.Product)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(o order.Order) error {
	log := h.logger.WithFields(logrus.Fields{"order_id": o.ID, "to": h.shopEmail})

	if err := h.mailer.SendOrderNotice(h.shopEmail, o); err != nil {
		log.WithError(err).Error("failed to send order notice")
		return err
	}
	log.WithField("total", o.Total.String()).Info("order notice sent")
	return nil
}

func (h *Handler) checkStock(p catalog.Product) {
	if !p.LowStock() {
		return
	}
	h.logger.WithFields(logrus.Fields{
		"product_id": p.ID,
		"name":       p.Name,
		"stock":      p.Stock,
	}).Warn("product is low on stock")
}
