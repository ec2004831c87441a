package observe

import "fmt"

// RelayTopics builds the bus topics for one relayed subject.
type RelayTopics struct {
	subject string
}

func NewTopics(subject string) *RelayTopics {
	return &RelayTopics{subject: subject}
}

// Changed carries every local notification, value-driven or forced.
func (t *RelayTopics) Changed() string {
	return fmt.Sprintf("subject.%s.changed", t.subject)
}

// SetValue receives remote writes that are applied through Observer.Update.
func (t *RelayTopics) SetValue() string {
	return fmt.Sprintf("subject.%s.set_value", t.subject)
}

// GetValue receives value requests; replies go to ValueReply.
func (t *RelayTopics) GetValue() string {
	return fmt.Sprintf("subject.%s.get_value", t.subject)
}
func (t *RelayTopics) ValueReply() string {
	return fmt.Sprintf("subject.%s.value", t.subject)
}

// ForceSync triggers Observer.ForceUpdate without a value change.
func (t *RelayTopics) ForceSync() string {
	return fmt.Sprintf("subject.%s.force_sync", t.subject)
}

func (t *RelayTopics) SendStatus() string { return fmt.Sprintf("subject.%s.status", t.subject) }
func (t *RelayTopics) RequestStatus() string {
	return fmt.Sprintf("subject.%s.request_status", t.subject)
}
