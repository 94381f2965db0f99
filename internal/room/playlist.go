package room

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/svincent/tandem.io/internal/catalog"
)

type Order string

const (
	OrderFIFO    Order = "fifo"
	OrderShuffle Order = "shuffle"
)

// Item is one playlist entry. The id is server-assigned and unique within
// the room.
type Item struct {
	ID      string        `json:"id"`
	Track   catalog.Track `json:"track"`
	AddedBy User          `json:"added_by"`
}

// playlist is the room's ordered queue. Not safe for concurrent use; the
// owning room's lock covers it.
type playlist struct {
	items []Item
}

func (p *playlist) add(track catalog.Track, by User) Item {
	item := Item{
		ID:      uuid.NewString(),
		Track:   track,
		AddedBy: by,
	}
	p.items = append(p.items, item)

	return item
}

func (p *playlist) remove(id string) (Item, bool) {
	i := slices.IndexFunc(p.items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return Item{}, false
	}

	item := p.items[i]
	p.items = slices.Delete(p.items, i, i+1)

	return item, true
}

// pick selects the next entry under the given policy without removing it.
// An unknown or unset policy selects in insertion order.
func (p *playlist) pick(order Order, random func(n int) int) (Item, bool) {
	if len(p.items) == 0 {
		return Item{}, false
	}

	switch order {
	case OrderShuffle:
		return p.items[random(len(p.items))], true
	default:
		return p.items[0], true
	}
}

func (p *playlist) list() []Item {
	if p.items == nil {
		return []Item{}
	}

	return slices.Clone(p.items)
}
