package observe

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type RelayStatus string

const (
	RelayStatusInitializing RelayStatus = "INITIALIZING"
	RelayStatusConnected    RelayStatus = "CONNECTED"
	RelayStatusMirroring    RelayStatus = "MIRRORING"
	RelayStatusDestroyed    RelayStatus = "DESTROYED"
	RelayStatusError        RelayStatus = "ERROR"
)

func (r *Relay[T]) RegisterStatusHandler() {
	r.router.AddHandler(
		"observe.request_status",
		r.topics.RequestStatus(),
		r.sub,
		r.topics.SendStatus(),
		r.pub,
		r.handleStatusRequest,
	)
}

func (r *Relay[T]) handleStatusRequest(_ *message.Message) ([]*message.Message, error) {
	status := r.Status()

	return []*message.Message{
		message.NewMessage(watermill.NewUUID(), []byte(status)),
	}, nil
}

func (r *Relay[T]) UpdateStatus(status RelayStatus) error {
	err := r.pub.Publish(
		r.topics.SendStatus(),
		message.NewMessage(watermill.NewUUID(), []byte(status)),
	)
	if err != nil {
		return fmt.Errorf("could not publish status message: %w", err)
	}

	r.status.Set(status)

	return nil
}

func (r *Relay[T]) Status() RelayStatus {
	status, ok := r.status.Get()
	if !ok {
		return RelayStatusError
	}

	return status
}
