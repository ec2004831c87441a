package observetest

// Recorder counts notifications and records the order labeled callbacks
// fired in. It is meant for single-goroutine observer tests.
type Recorder struct {
	calls  int
	labels []string
}

func NewRecorder() *Recorder {
	return &Recorder{
		labels: make([]string, 0),
	}
}

// Callback returns a zero-argument callback that bumps the call count and
// appends label to the firing order.
func (r *Recorder) Callback(label string) func() {
	return func() {
		r.calls++
		r.labels = append(r.labels, label)
	}
}

func (r *Recorder) Calls() int { return r.calls }

func (r *Recorder) Order() []string { return r.labels }

func (r *Recorder) Reset() {
	r.calls = 0
	r.labels = r.labels[:0]
}
