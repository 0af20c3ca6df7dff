package entity

import (
	"bytes"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

// TransactionType is the kind of stock movement a ledger entry records.
type TransactionType string

const (
	TransactionReceipt     TransactionType = "receipt"
	TransactionDelivery    TransactionType = "delivery"
	TransactionTransferIn  TransactionType = "transfer_in"
	TransactionTransferOut TransactionType = "transfer_out"
	TransactionAdjustment  TransactionType = "adjustment"
)

// RequiresStock reports whether a movement of this type must be covered by the current balance.
// Adjustments record a physical count and are never refused.
func (t TransactionType) RequiresStock() bool {
	return t == TransactionDelivery || t == TransactionTransferOut
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionReceipt, TransactionDelivery, TransactionTransferIn, TransactionTransferOut, TransactionAdjustment:
		return true
	}
	return false
}

// StockKey identifies a balance: a product at a location of a warehouse.
type StockKey struct {
	ProductID   id.ID `db:"product_id" json:"productId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	LocationID  id.ID `db:"location_id" json:"locationId"`
}

// Compare orders keys by product, warehouse, location.
// Balance locks are always taken in this order.
func (k StockKey) Compare(o StockKey) int {
	if c := bytes.Compare(k.ProductID[:], o.ProductID[:]); c != 0 {
		return c
	}
	if c := bytes.Compare(k.WarehouseID[:], o.WarehouseID[:]); c != 0 {
		return c
	}
	return bytes.Compare(k.LocationID[:], o.LocationID[:])
}

func (k StockKey) String() string {
	return k.ProductID.String() + "/" + k.WarehouseID.String() + "/" + k.LocationID.String()
}

// LedgerEntry is one immutable stock movement.
// Per key, ordered by Seq, RunningBalance[n] = RunningBalance[n-1] + Quantity[n] starting from 0.
type LedgerEntry struct {
	ID id.ID `db:"id" json:"id"`

	StockKey

	// Quantity is the signed delta
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// RunningBalance is the balance of the key right after this entry
	RunningBalance types.Quantity `db:"running_balance" json:"runningBalance"`

	TransactionType TransactionType `db:"transaction_type" json:"transactionType"`

	// Reference is the document that produced the entry
	ReferenceType   string `db:"reference_type" json:"referenceType"`
	ReferenceID     id.ID  `db:"reference_id" json:"referenceId"`
	ReferenceNumber string `db:"reference_number" json:"referenceNumber"`

	UserID id.ID  `db:"user_id" json:"userId"`
	Note   string `db:"note" json:"note,omitempty"`

	// Seq is assigned by storage and orders entries of the same key
	Seq int64 `db:"seq" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StockBalance is the latest running balance of a key.
// It is maintained together with the ledger and equals the sum of the key's deltas.
type StockBalance struct {
	StockKey

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
