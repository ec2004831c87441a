package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/observe-kit/observe_go/observemq"
)

// Relay mirrors one Observer/State pair over a message bus. Remote writes on
// the set_value topic are applied through Observer.Update, force_sync
// triggers ForceUpdate, get_value is answered with the current value, and
// every local notification is republished on the changed topic.
type Relay[T any] struct {
	subject string
	logger  *slog.Logger

	watermillLogger watermill.LoggerAdapter
	router          *message.Router
	pub             message.Publisher
	sub             message.Subscriber

	observer *Observer[T]
	topics   *RelayTopics
	status   *AtomicValue[RelayStatus]
	fetch    observemq.Fetcher

	// onConnect func will be called in Run method after pub & sub creation
	onConnect func() error

	// onRemoteSet func will be called after a remote write has been applied
	onRemoteSet func(value T) error

	unsubscribe Unsubscribe
}

func NewRelay[T any](subject string, observer *Observer[T], opts ...RelayOption) *Relay[T] {
	options := &RelayOptions{
		logger: nil,
		pub:    nil,
		sub:    nil,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Relay[T]{
		subject:     subject,
		logger:      options.logger,
		pub:         options.pub,
		sub:         options.sub,
		observer:    observer,
		topics:      NewTopics(subject),
		status:      NewAtomicValue(RelayStatusInitializing),
		fetch:       options.fetch,
		onConnect:   nil,
		onRemoteSet: nil,
		unsubscribe: nil,
	}
}

func (r *Relay[T]) Run(ctx context.Context, opts ...ConnectOption) error {
	options := &ConnectOptions{
		watermillLogger: watermill.NopLogger{},
		pubFactory:      DefaultPublisherFactory(DefaultNatsURL),
		subFactory:      DefaultSubscriberFactory(DefaultNatsURL),
		routerFactory:   DefaultRouterFactory,
	}
	for _, opt := range opts {
		opt(options)
	}

	r.watermillLogger = options.watermillLogger

	var err error

	if r.sub == nil {
		r.sub, err = options.subFactory(options.watermillLogger)
		if err != nil {
			return fmt.Errorf("failed to create subscriber: %w", err)
		}
	}

	if r.pub == nil {
		r.pub, err = options.pubFactory(options.watermillLogger)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
	}

	if r.onConnect != nil {
		if err := r.onConnect(); err != nil {
			return err
		}
	}

	if err := r.UpdateStatus(RelayStatusConnected); err != nil {
		return fmt.Errorf("failed to update relay status: %w", err)
	}

	r.router = options.routerFactory(options.watermillLogger)

	r.RegisterStatusHandler()
	r.RegisterValueHandlers()

	r.unsubscribe = r.observer.OnChange(func() {
		if err := r.publishChanged(); err != nil {
			r.logger.Error("failed to publish change", slog.String("err", err.Error()))
		}
	})

	if err := r.UpdateStatus(RelayStatusMirroring); err != nil {
		return fmt.Errorf("failed to update relay status: %w", err)
	}

	if err := r.router.Run(ctx); err != nil {
		return fmt.Errorf("failed to run router: %w", err)
	}

	return nil
}

func (r *Relay[T]) RegisterValueHandlers() {
	r.router.AddNoPublisherHandler(
		"observe.set_value",
		r.topics.SetValue(),
		r.sub,
		r.handleSetValue,
	)

	r.router.AddHandler(
		"observe.get_value",
		r.topics.GetValue(),
		r.sub,
		r.topics.ValueReply(),
		r.pub,
		r.handleGetValue,
	)

	r.router.AddNoPublisherHandler(
		"observe.force_sync",
		r.topics.ForceSync(),
		r.sub,
		r.handleForceSync,
	)
}

func (r *Relay[T]) handleSetValue(msg *message.Message) error {
	var value T
	if err := json.Unmarshal(msg.Payload, &value); err != nil {
		return fmt.Errorf("could not unmarshal value: %w", err)
	}

	if err := r.observer.Update(value); err != nil {
		return fmt.Errorf("could not apply remote write: %w", err)
	}

	if r.onRemoteSet != nil {
		if err := r.onRemoteSet(value); err != nil {
			return fmt.Errorf("could not run remote set handler: %w", err)
		}
	}

	return nil
}

func (r *Relay[T]) handleGetValue(_ *message.Message) ([]*message.Message, error) {
	state := r.observer.State()
	if state == nil {
		return nil, ErrObserverDestroyed
	}

	payload, err := json.Marshal(state.Get())
	if err != nil {
		return nil, fmt.Errorf("could not marshal value: %w", err)
	}

	return []*message.Message{
		message.NewMessage(watermill.NewUUID(), payload),
	}, nil
}

func (r *Relay[T]) handleForceSync(_ *message.Message) error {
	r.observer.ForceUpdate()
	return nil
}

// Set drives a local write through the observer. The resulting notification
// is republished on the changed topic by the relay's own subscription.
func (r *Relay[T]) Set(value T) error {
	if err := r.observer.Update(value); err != nil {
		return fmt.Errorf("could not update observer: %w", err)
	}

	return nil
}

// FetchValue returns the current value of the remote cell for this subject.
//
// It subscribes on the value reply topic and publishes a get_value request,
// or goes through the configured fetcher when one was set. It's a blocking
// function. A context without a deadline is bounded by
// DefaultFetchWaitingTimeout; when the context is canceled FetchValue
// returns the context error.
func (r *Relay[T]) FetchValue(ctx context.Context) (T, error) {
	var zero T

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchWaitingTimeout)
		defer cancel()
	}

	if r.fetch != nil {
		response, err := r.fetch.Fetch(
			ctx,
			r.topics.GetValue(),
			message.NewMessage(watermill.NewUUID(), []byte(r.subject)),
		)
		if err != nil {
			return zero, fmt.Errorf("could not fetch value: %w", err)
		}

		var value T
		if err := json.Unmarshal(response.Payload, &value); err != nil {
			return zero, fmt.Errorf("failed to unmarshal value: %w", err)
		}

		return value, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.sub.Subscribe(
		ctx,
		r.topics.ValueReply(),
	)
	if err != nil {
		return zero, fmt.Errorf("could not subscribe to value reply: %w", err)
	}

	err = r.pub.Publish(
		r.topics.GetValue(),
		message.NewMessage(watermill.NewUUID(), []byte(r.subject)),
	)
	if err != nil {
		return zero, fmt.Errorf("could not publish value request: %w", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()

		var value T
		if err := json.Unmarshal(msg.Payload, &value); err != nil {
			return zero, fmt.Errorf("failed to unmarshal value: %w", err)
		}

		return value, nil
	case <-ctx.Done():
		return zero, fmt.Errorf("context is canceled before the value message is received: %w", ctx.Err())
	}
}

func (r *Relay[T]) publishChanged() error {
	state := r.observer.State()
	if state == nil {
		return ErrObserverDestroyed
	}

	payload, err := json.Marshal(state.Get())
	if err != nil {
		return fmt.Errorf("could not marshal value: %w", err)
	}

	return r.pub.Publish(
		r.topics.Changed(),
		message.NewMessage(watermill.NewUUID(), payload),
	)
}

func (r *Relay[T]) OnConnect(handler func() error) {
	r.onConnect = handler
}

func (r *Relay[T]) OnRemoteSet(handler func(value T) error) {
	r.onRemoteSet = handler
}

func (r *Relay[T]) Observer() *Observer[T] { return r.observer }

func (r *Relay[T]) Pub() message.Publisher { return r.pub }

func (r *Relay[T]) Sub() message.Subscriber { return r.sub }

func (r *Relay[T]) Router() *message.Router { return r.router }

func (r *Relay[T]) Close(ctx context.Context) {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}

	if r.pub != nil {
		if err := r.UpdateStatus(RelayStatusDestroyed); err != nil {
			r.logger.ErrorContext(ctx, "failed to publish destroyed status", slog.String("err", err.Error()))
		}

		if err := r.pub.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close publisher", slog.String("err", err.Error()))
		}

		r.pub = nil
	}

	if r.sub != nil {
		if err := r.sub.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close subscriber", slog.String("err", err.Error()))
		}

		r.sub = nil
	}

	// keep the local marker even when the publish failed or no pub was set
	r.status.Set(RelayStatusDestroyed)
}
