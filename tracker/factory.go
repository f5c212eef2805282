package tracker

// Factory builds Trackers that share a default set of subscribers and
// options.
type Factory struct {
	defaults []Subscriber
	opts     []Option
}

// NewFactory creates a Factory. Every Tracker it builds gets the default
// subscribers registered first and opts applied.
func NewFactory(defaults []Subscriber, opts ...Option) *Factory {
	return &Factory{
		defaults: append([]Subscriber(nil), defaults...),
		opts:     append([]Option(nil), opts...),
	}
}

// NewTracker builds a Tracker for numItems items (or Unknown) with the
// factory defaults registered, followed by extra.
func (f *Factory) NewTracker(numItems int, extra ...Subscriber) *Tracker {
	subscribers := make([]Subscriber, 0, len(f.defaults)+len(extra))
	subscribers = append(subscribers, f.defaults...)
	subscribers = append(subscribers, extra...)
	return Build(subscribers, numItems, f.opts...)
}

// DefaultSubscribers returns the subscribers every built Tracker starts with.
func (f *Factory) DefaultSubscribers() []Subscriber {
	return append([]Subscriber(nil), f.defaults...)
}
