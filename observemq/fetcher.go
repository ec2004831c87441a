package observemq

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"

	wnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
)

// DefaultFetchTimeout bounds a Fetch whose context carries no deadline.
const DefaultFetchTimeout = 5 * time.Second

// Fetcher asks a remote cell for its current value over request/reply,
// without standing up a router or a subscription.
type Fetcher interface {
	Fetch(ctx context.Context, topic string, request *message.Message) (*message.Message, error)
	Close() error
}

type NatsFetcherConfig struct {
	URL     string
	Timeout time.Duration

	Marshaler   wnats.Marshaler
	Unmarshaler wnats.Unmarshaler
}

func (cfg *NatsFetcherConfig) setDefaults() {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}

	marshaler := new(wnats.NATSMarshaler)

	if cfg.Marshaler == nil {
		cfg.Marshaler = marshaler
	}

	if cfg.Unmarshaler == nil {
		cfg.Unmarshaler = marshaler
	}
}

type NatsFetcher struct {
	conn *nats.Conn
	cfg  NatsFetcherConfig
}

func NewNatsFetcher(cfg *NatsFetcherConfig) (*NatsFetcher, error) {
	if cfg == nil {
		cfg = new(NatsFetcherConfig)
	}

	cfg.setDefaults()

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NatsFetcher{
		conn: conn,
		cfg:  *cfg,
	}, nil
}

// Fetch publishes request on topic and waits for the single reply. A context
// without a deadline is bounded by the configured timeout.
func (nf *NatsFetcher) Fetch(ctx context.Context, topic string, request *message.Message) (*message.Message, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, nf.cfg.Timeout)
		defer cancel()
	}

	natsRequest, err := nf.cfg.Marshaler.Marshal(topic, request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nats message: %w", err)
	}

	natsResponse, err := nf.conn.RequestMsgWithContext(ctx, natsRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to send nats message: %w", err)
	}

	reply, err := nf.cfg.Unmarshaler.Unmarshal(natsResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal nats message: %w", err)
	}

	return reply, nil
}

func (nf *NatsFetcher) Close() error {
	nf.conn.Close()

	return nil
}
