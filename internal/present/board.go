// Package present holds the summary cards and renders them.
package present

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// Card is one titled summary value.
type Card struct {
	Slot  model.Slot
	Value decimal.Decimal
}

// Snapshot is a point-in-time copy of a Board.
type Snapshot struct {
	Cards []Card
	Err   error
}

// Board is the set of summary cards shown to the user. It is safe for
// concurrent use.
type Board struct {
	mu    sync.RWMutex
	order []model.Slot
	cards map[model.Slot]decimal.Decimal
	err   error
}

// NewBoard creates a board with no cards.
func NewBoard() *Board {
	return &Board{cards: make(map[model.Slot]decimal.Decimal)}
}

// NewSalesBoard creates a board with the four sales slots set to zero.
func NewSalesBoard() *Board {
	b := NewBoard()
	for _, slot := range model.Slots() {
		b.AddSummary(slot, decimal.Zero)
	}
	return b
}

// AddSummary appends a card. Adding an existing slot resets its value.
func (b *Board) AddSummary(slot model.Slot, initial decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.cards[slot]; !ok {
		b.order = append(b.order, slot)
	}
	b.cards[slot] = initial
}

// Summary returns the card for slot.
func (b *Board) Summary(slot model.Slot) (Card, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.cards[slot]
	if !ok {
		return Card{}, false
	}
	return Card{Slot: slot, Value: v}, true
}

// UpdateContent sets the value of an existing card and clears any error
// state. Unknown slots are ignored.
func (b *Board) UpdateContent(slot model.Slot, value decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.cards[slot]; !ok {
		return
	}
	b.cards[slot] = value
	b.err = nil
}

// ShowError puts the board in a failure state until the next update.
func (b *Board) ShowError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Snapshot copies the cards in display order.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cards := make([]Card, len(b.order))
	for i, slot := range b.order {
		cards[i] = Card{Slot: slot, Value: b.cards[slot]}
	}
	return Snapshot{Cards: cards, Err: b.err}
}

// FormatValue renders a card value: whole numbers for top-ups, two decimal
// places otherwise.
func FormatValue(slot model.Slot, v decimal.Decimal) string {
	if slot == model.SlotTopUps {
		return v.StringFixed(0)
	}
	return v.StringFixed(2)
}
