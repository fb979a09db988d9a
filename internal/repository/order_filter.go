package repository

import (
	"strings"

	"github.com/fixthevideo/studio-api/internal/model"
)

// Dashboard tab values. Each tab selects a slice of the lifecycle:
// Active and Completed split non-cancelled records on the master
// stage, Cancelled shows only cancelled records, Delivered shows
// records whose final master file has been handed over.
const (
	TabActive    = "Active"
	TabCompleted = "Completed"
	TabCancelled = "Cancelled"
	TabDelivered = "Delivered"
)

// List type values restricting by the IsOrder flag.
const (
	ListAll     = "All"
	ListSamples = "Samples"
	ListOrders  = "Orders"
)

// Search criteria. Batch matches the order id, Date the display date
// string, Email the owning customer email; all case-insensitive
// substring matches.
const (
	SearchBatch = "Batch"
	SearchDate  = "Date"
	SearchEmail = "Email"
)

// OrderFilter is the combinatorial dashboard filter. Search is applied
// only when the user has explicitly applied it (Applied = true); typed
// but unapplied search text must not narrow results, so handlers leave
// Applied false until the apply action.
type OrderFilter struct {
	Tab       string
	ListType  string
	Criterion string
	Search    string
	Applied   bool
}

// Match reports whether an order passes every dimension of the filter.
// It is the single source of truth for list composition; the SQL layer
// fetches candidate rows in insertion order and applies Match so the
// semantics stay identical between the database-backed repository and
// in-memory stores used in tests.
func (f OrderFilter) Match(o model.Order) bool {
	switch f.Tab {
	case TabActive:
		if o.Status == model.StatusMaster || o.IsCancelled {
			return false
		}
	case TabCompleted:
		if o.Status != model.StatusMaster || o.IsCancelled {
			return false
		}
	case TabCancelled:
		if !o.IsCancelled {
			return false
		}
	case TabDelivered:
		if !o.FinalFileReady {
			return false
		}
	}

	switch f.ListType {
	case ListSamples:
		if o.IsOrder {
			return false
		}
	case ListOrders:
		if !o.IsOrder {
			return false
		}
	}

	if !f.Applied || f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	switch f.Criterion {
	case SearchBatch:
		return strings.Contains(strings.ToLower(o.ID), needle)
	case SearchDate:
		return strings.Contains(strings.ToLower(o.Date), needle)
	case SearchEmail:
		return strings.Contains(strings.ToLower(o.CustomerEmail), needle)
	}
	return true
}
