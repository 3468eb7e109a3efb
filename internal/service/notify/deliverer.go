package notify

import (
	"context"

	"github.com/keiji/reeldaily/internal/constants"
	"go.uber.org/zap"
)

type channelPublisher interface {
	Publish(ctx context.Context, channel, payload string) error
}

// ChannelDeliverer pushes alert bodies onto the shared notifications
// channel, where app surfaces pick them up.
type ChannelDeliverer struct {
	publisher channelPublisher
	logger    *zap.Logger
}

func NewChannelDeliverer(publisher channelPublisher, logger *zap.Logger) *ChannelDeliverer {
	return &ChannelDeliverer{
		publisher: publisher,
		logger:    logger,
	}
}

func (d *ChannelDeliverer) Deliver(ctx context.Context, body string) error {
	return d.publisher.Publish(ctx, constants.Channels.Notifications, body)
}
