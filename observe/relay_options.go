package observe

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/observe-kit/observe_go/observemq"
)

type RelayOptions struct {
	logger *slog.Logger
	pub    message.Publisher
	sub    message.Subscriber
	fetch  observemq.Fetcher
}

type RelayOption func(*RelayOptions)

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(o *RelayOptions) {
		o.logger = logger
	}
}

func WithRelayPub(pub message.Publisher) RelayOption {
	return func(o *RelayOptions) {
		o.pub = pub
	}
}

func WithRelaySub(sub message.Subscriber) RelayOption {
	return func(o *RelayOptions) {
		o.sub = sub
	}
}

// WithRelayFetcher makes FetchValue use request/reply instead of a
// subscribe-then-request round trip.
func WithRelayFetcher(fetch observemq.Fetcher) RelayOption {
	return func(o *RelayOptions) {
		o.fetch = fetch
	}
}
