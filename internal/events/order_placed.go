package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
	OrderPlacedSchema       = "contracts/events/storefront/OrderPlaced.v1.enveloped.schema.json"

	// All orders share one partition so consumers see a single ordered feed.
	OrderPlacedPartition = "storefront-orders"
)

type OrderPlacedPayload struct {
	OrderID             string            `json:"orderId"`
	CustomerPhone       string            `json:"customerPhone"`
	FullDeliveryAddress string            `json:"fullDeliveryAddress"`
	Items               []OrderPlacedItem `json:"items"`
	TotalPrice          float64           `json:"totalPrice"`
	Status              string            `json:"status"`
	CreatedAt           time.Time         `json:"createdAt"`
}

type OrderPlacedItem struct {
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func BuildOrderPlaced(o *order.Order, seq int64, meta EnvelopeMetadata, now time.Time) EventEnvelope[OrderPlacedPayload] {
	payload := OrderPlacedPayload{
		OrderID:             o.ID,
		CustomerPhone:       o.CustomerPhone,
		FullDeliveryAddress: o.FullDeliveryAddress,
		TotalPrice:          o.TotalPrice,
		Status:              string(o.Status),
		CreatedAt:           o.CreatedAt,
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderPlacedItem{
			Name:     it.Name,
			Size:     it.Size,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	return EventEnvelope[OrderPlacedPayload]{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      storefrontProducer,
		PartitionKey:  OrderPlacedPartition,
		Sequence:      &seq,
		OccurredAt:    now.UTC(),
		Schema:        OrderPlacedSchema,
		Payload:       payload,
	}
}
