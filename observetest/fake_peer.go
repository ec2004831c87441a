package observetest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// FakePeer plays the remote side of a relayed subject in tests: it answers
// get_value requests with a configured value on the subject's reply topic.
type FakePeer struct {
	pub message.Publisher
	sub message.Subscriber

	values map[string]any
}

func NewFakePeer(
	pub message.Publisher,
	sub message.Subscriber,
	values map[string]any,
) *FakePeer {
	return &FakePeer{
		pub:    pub,
		sub:    sub,
		values: values,
	}
}

// Run handles get_value requests and sends the configured value into the
// subject's reply topic.
//
// It returns a stop function. Call it before closing the subscriber to shut
// down gracefully. Stop should be called before closing pub/sub (and
// router).
func (f *FakePeer) Run(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	for subject, value := range f.values {
		f.run(ctx, subject, value)
	}

	return cancel
}

func (f *FakePeer) run(ctx context.Context, subject string, value any) {
	messages, err := f.sub.Subscribe(
		ctx,
		fmt.Sprintf("subject.%s.get_value", subject),
	)
	if err != nil {
		panic(fmt.Errorf("could not subscribe to value requests: %w", err))
	}

	go func() {
		for {
			select {
			case msg := <-messages:
				data, err := json.Marshal(value)
				if err != nil {
					panic(fmt.Errorf("failed to marshal value: %w", err))
				}

				err = f.pub.Publish(
					fmt.Sprintf("subject.%s.value", subject),
					message.NewMessage(watermill.NewUUID(), data),
				)
				if err != nil {
					panic(fmt.Errorf("could not publish requested value: %w", err))
				}

				msg.Ack()
			case <-ctx.Done():
				return
			}
		}
	}()
}
