package model

import "github.com/shopspring/decimal"

// Slot names one card of the sales summary.
type Slot string

const (
	SlotWallet  Slot = "WALLET"
	SlotSales   Slot = "SALES"
	SlotRebates Slot = "REBATES"
	SlotTopUps  Slot = "TOP UPS"
)

// Slots returns the summary slots in display order.
func Slots() []Slot {
	return []Slot{SlotWallet, SlotSales, SlotRebates, SlotTopUps}
}

// Summary holds the values derived from one query cycle.
type Summary struct {
	Wallet  decimal.Decimal
	Sales   decimal.Decimal
	Rebates decimal.Decimal
	TopUps  decimal.Decimal
}

// Value returns the summary value for a slot, or zero for an unknown slot.
func (s Summary) Value(slot Slot) decimal.Decimal {
	switch slot {
	case SlotWallet:
		return s.Wallet
	case SlotSales:
		return s.Sales
	case SlotRebates:
		return s.Rebates
	case SlotTopUps:
		return s.TopUps
	default:
		return decimal.Zero
	}
}
