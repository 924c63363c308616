package orderbook

import (
	rbt "github.com/emirpasic/gods/trees/redblacktree"

	"github.com/hqpro/clobengine/price"
)

// PriceLevels is the ordered ladder of OrderLists for one side of one
// instrument: bids sort descending (best = highest price), asks
// ascending (best = lowest). Backed by a red-black tree so that
// insert/remove/best-of-book are all O(log n) regardless of how many
// distinct price levels are resting.
type PriceLevels struct {
	tree *rbt.Tree
}

func bidComparator(a, b interface{}) int {
	return -a.(price.Price).Compare(b.(price.Price))
}

func askComparator(a, b interface{}) int {
	return a.(price.Price).Compare(b.(price.Price))
}

func newPriceLevels(side Side) *PriceLevels {
	if side == Buy {
		return &PriceLevels{tree: rbt.NewWith(bidComparator)}
	}
	return &PriceLevels{tree: rbt.NewWith(askComparator)}
}

// insert locates (or creates) the level at order.CurrentPrice and
// appends order to its FIFO tail.
func (pl *PriceLevels) insert(o *Order) {
	if v, found := pl.tree.Get(o.CurrentPrice); found {
		v.(*OrderList).pushBack(o)
		return
	}
	level := newOrderList(o.CurrentPrice)
	level.pushBack(o)
	pl.tree.Put(o.CurrentPrice, level)
}

// remove drops order from its level, and drops the level itself if it
// is left empty. Fatal if the level is missing — that breaks the
// invariant that every resting order lives on exactly one level.
func (pl *PriceLevels) remove(o *Order) {
	v, found := pl.tree.Get(o.CurrentPrice)
	if !found {
		panic("orderbook: resting order has no price level")
	}
	level := v.(*OrderList)
	level.remove(o)
	if level.empty() {
		pl.tree.Remove(o.CurrentPrice)
	}
}

// front returns the head order of the best level, or nil if the
// ladder is empty.
func (pl *PriceLevels) front() *Order {
	node := pl.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value.(*OrderList).front()
}

func (pl *PriceLevels) size() int {
	return pl.tree.Size()
}

// forEach walks levels best-first, for snapshots.
func (pl *PriceLevels) forEach(fn func(level *OrderList)) {
	it := pl.tree.Iterator()
	for it.Next() {
		fn(it.Value().(*OrderList))
	}
}
