package service

import (
	"context"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/search"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
)

// notifier delivers side effects that must never fail the calling operation
type notifier struct {
	publisher events.Publisher
	indexer   search.Indexer
}

func newNotifier(publisher events.Publisher, indexer search.Indexer) notifier {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if indexer == nil {
		indexer = search.Nop{}
	}
	return notifier{publisher: publisher, indexer: indexer}
}

func (n notifier) publish(ctx context.Context, topic, key string, payload interface{}) {
	if err := n.publisher.Publish(ctx, topic, key, payload); err != nil {
		eventPublishFailures.WithLabelValues(topic).Inc()
		pkglogger.FromContext(ctx).Warn().Err(err).Str("topic", topic).Str("key", key).Msg("event publish failed")
	}
}

func (n notifier) reindex(ctx context.Context, l *domain.Listing) {
	if err := n.indexer.Index(ctx, l); err != nil {
		pkglogger.FromContext(ctx).Warn().Err(err).Str("listing_id", l.ID).Msg("search index update failed")
	}
}

func (n notifier) unindex(ctx context.Context, id string) {
	if err := n.indexer.Remove(ctx, id); err != nil {
		pkglogger.FromContext(ctx).Warn().Err(err).Str("listing_id", id).Msg("search index delete failed")
	}
}

func (n notifier) published(ctx context.Context, l *domain.Listing) {
	via := ""
	if l.PublishedVia != nil {
		via = string(*l.PublishedVia)
	}
	listingsPublishedTotal.WithLabelValues(via).Inc()
	n.reindex(ctx, l)
	n.publish(ctx, events.TopicListingPublished, l.ID, events.ListingPublished{
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Via:       via,
	})
}
