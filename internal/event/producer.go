package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ezra-186/Team09-HCH/pkg/kafka"
	"github.com/Ezra-186/Team09-HCH/pkg/logger"

	"github.com/Ezra-186/Team09-HCH/internal/domain"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicProductCreated = "marketplace.product.created"
	TopicProductUpdated = "marketplace.product.updated"
	TopicProductDeleted = "marketplace.product.deleted"
	TopicReviewCreated  = "marketplace.review.created"
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from this service.
const SourceMarketplace = "marketplace-api"

// ProductEventData is the payload for product lifecycle events.
type ProductEventData struct {
	ProductID string  `json:"product_id"`
	SellerID  string  `json:"seller_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

// Producer publishes marketplace domain events to Kafka. Publishing is
// best-effort; callers log failures and carry on, so a broker outage never
// fails a request.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the marketplace service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// publish stamps the request's correlation ID onto the envelope, when one is
// present, and hands the event to the Kafka producer.
func (p *Producer) publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	return p.kafka.Publish(ctx, topic, event)
}

func productData(p *domain.Product) ProductEventData {
	category := domain.CategoryGeneral
	if p.Category != nil {
		category = *p.Category
	}
	return ProductEventData{
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Category:  category,
		Price:     p.Price,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, AggregateTypeProduct, SourceMarketplace, productData(product))
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(TopicProductUpdated, product.ID, AggregateTypeProduct, SourceMarketplace, productData(product))
	if err != nil {
		return fmt.Errorf("create product.updated event: %w", err)
	}

	if err := p.publish(ctx, TopicProductUpdated, event); err != nil {
		return fmt.Errorf("publish product.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.updated event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID, sellerID string) error {
	data := ProductDeletedData{
		ProductID: productID,
		SellerID:  sellerID,
	}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, productID, AggregateTypeProduct, SourceMarketplace, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", productID),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ProductID, AggregateTypeReview, SourceMarketplace, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}
