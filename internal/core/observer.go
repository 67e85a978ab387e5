package core

// Observer receives counters from the hub. Implementations must be safe for
// concurrent use.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	RoomOpened()
	RoomClosed()
	SignalRelayed()
	SignalDropped()
	Broadcast(kind EventKind, recipients int)
	DeliveryDropped(kind EventKind)
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened() {}
func (nopObserver) ConnectionClosed() {}
func (nopObserver) RoomOpened() {}
func (nopObserver) RoomClosed() {}
func (nopObserver) SignalRelayed() {}
func (nopObserver) SignalDropped() {}
func (nopObserver) Broadcast(EventKind, int) {}
func (nopObserver) DeliveryDropped(EventKind) {}
