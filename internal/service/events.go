package service

// Realtime event types pushed to dashboard clients.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
	EventStockUpdate    = "stock_update"
	EventSaleCreated    = "sale_created"
)

// EventPublisher fans committed changes out to connected clients.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) {}
