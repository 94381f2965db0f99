package room

import "time"

// playerState is the room's playback state machine: Idle when item is nil,
// Playing otherwise. Exactly one tick timer is outstanding while Playing;
// epoch invalidates ticks that belong to a superseded item.
type playerState struct {
	item    *Item
	elapsed int
	order   Order
	timer   *time.Timer
	epoch   uint64
}

type PlayerSnapshot struct {
	Item    *Item `json:"item"`
	Elapsed int   `json:"elapsed"`
	Order   Order `json:"order"`
}

// nextItemLocked advances to the next playlist entry under the active order
// policy, or into Idle when the playlist is empty. The selected entry is
// removed from the playlist (and the removal broadcast) before playback
// starts, so it can never be selected twice.
func (r *Room) nextItemLocked() {
	next, ok := r.playlist.pick(r.player.order, r.cfg.Random)
	if !ok {
		r.playItemLocked(nil)
		return
	}

	r.playlist.remove(next.ID)
	r.broadcastLocked(Envelope{Module: ModulePlaylist, Type: "remove", Payload: next.ID})
	r.playItemLocked(&next)
}

func (r *Room) playItemLocked(item *Item) {
	if r.player.timer != nil {
		r.player.timer.Stop()
		r.player.timer = nil
	}
	r.player.epoch++
	r.player.elapsed = 0
	r.player.item = item
	if item != nil {
		r.scheduleTickLocked()
	}

	r.broadcastLocked(Envelope{Module: ModulePlayer, Type: "play", Payload: item})
}

func (r *Room) scheduleTickLocked() {
	epoch := r.player.epoch
	r.player.timer = time.AfterFunc(r.cfg.TickInterval, func() { r.tick(epoch) })
}

func (r *Room) tick(epoch uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickLocked(epoch)
}

// tickLocked accumulates elapsed playback time. Reaching the item's duration
// advances instead of broadcasting the elapsed update for that tick.
func (r *Room) tickLocked(epoch uint64) {
	if epoch != r.player.epoch || r.player.item == nil {
		return
	}

	r.player.elapsed += int(r.cfg.TickInterval / time.Second)
	if r.player.elapsed >= r.player.item.Track.Duration {
		r.nextItemLocked()
		return
	}

	r.scheduleTickLocked()
	r.broadcastLocked(Envelope{Module: ModulePlayer, Type: "elapsed", Payload: r.player.elapsed})
}

// setOrderLocked validates against the closed policy enum. An empty value
// resolves to fifo; anything else outside the enum is rejected and the
// current policy retained.
func (r *Room) setOrderLocked(order Order) error {
	if order == "" {
		order = OrderFIFO
	}
	if order != OrderFIFO && order != OrderShuffle {
		return ErrInvalidOrder
	}

	r.player.order = order

	return nil
}
