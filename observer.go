package fsmx

// TransitionEvent describes one committed transition. Observers registered
// with WithObserver receive it synchronously from inside Step.
type TransitionEvent struct {
	Machine string `json:"machine" yaml:"machine"`
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Step    uint64 `json:"step" yaml:"step"`
}

// ChannelObserver adapts a channel to the observer signature. Delivery is
// non-blocking: when the channel is full the event is dropped, so a slow
// consumer can never stall Step.
func ChannelObserver(ch chan<- TransitionEvent) func(TransitionEvent) {
	return func(ev TransitionEvent) {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *Machine[C]) notifyTransition(from, to string) {
	if len(m.observers) == 0 {
		return
	}
	ev := TransitionEvent{Machine: m.id, From: from, To: to, Step: m.steps}
	for _, fn := range m.observers {
		fn(ev)
	}
}
