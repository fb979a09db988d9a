package model

import "time"

// Order statuses form the laboratory pipeline.  Stages normally move
// forward, but admins may override in either direction; the repository
// does not block regressions.
const (
	StatusSample   = "sample"   // lab intake
	StatusAnalysis = "analysis" // technical analysis
	StatusSurgery  = "surgery"  // frame surgery
	StatusQC       = "qc"       // quality control
	StatusMaster   = "master"   // quoted / deliverable stage
)

// Statuses lists every pipeline stage in workflow order.
var Statuses = []string{StatusSample, StatusAnalysis, StatusSurgery, StatusQC, StatusMaster}

// ValidStatus reports whether s names a pipeline stage.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Services lists the retouching categories accepted at intake.
var Services = []string{
	"rig_removal",
	"background_removal",
	"video_cleanup",
	"logo_removal",
	"video_rotoscoping",
	"video_debanding",
	"reflections_removal",
	"color_correction",
	"green_screen",
}

// ValidService reports whether s names an accepted service category.
func ValidService(s string) bool {
	for _, v := range Services {
		if v == s {
			return true
		}
	}
	return false
}

// Revision records one round of customer-requested rework on an order.
//
// Fields:
//  ID       – primary key identifier.
//  OrderID  – order the revision belongs to.
//  Text     – what the customer asked to change.
//  Date     – display date the request was filed.
//  Resolved – whether the lab has addressed it.
type Revision struct {
	ID       uint64 `json:"id"`       // order_revisions.id
	OrderID  string `json:"order_id"` // order_revisions.order_id
	Text     string `json:"text"`     // order_revisions.text
	Date     string `json:"date"`     // order_revisions.date_label
	Resolved bool   `json:"resolved"` // order_revisions.resolved
}

// Order is a project record, sample or official.  The ID prefix encodes
// the origin: SMPL- for free samples, ORD- for direct paid orders.  A
// sample promoted through the payment flow keeps its SMPL- id but gains
// IsOrder = true.
//
// Fields:
//  ID             – unique batch number, e.g. SMPL-2167; never reused.
//  CustomerEmail  – owning customer account, matched case-insensitively.
//  CustomerName   – display name captured at intake.
//  Company        – optional company name.
//  Service        – one of the Services categories.
//  Link           – customer-supplied source footage link.
//  ReadyLink      – admin-supplied proof link, set when a quote is issued.
//  Status         – pipeline stage, one of the Statuses values.
//  IsOrder        – official (paid) order vs free sample.
//  IsPending      – awaiting first admin attention.
//  IsCancelled    – cancelled records are hidden from active views.
//  UnitPrice      – per-unit price; zero until quoted.
//  Quantity       – unit count; zero until quoted.
//  TotalPrice     – UnitPrice * Quantity, written only by the quote engine.
//  CustomerNote   – customer-visible note attached at quote time.
//  InternalNotes  – admin-only notes, never serialized to customers.
//  Revisions      – rework entries, loaded on detail views.
//  FinalFileReady – master asset delivered.
//  FinalFileLink  – master asset link.
//  FinalFileNote  – delivery note shown with the master asset.
//  Date           – display date string captured at creation.
//  Timestamp      – creation time in unix milliseconds, used for ordering.
type Order struct {
	ID             string     `json:"id"`
	CustomerEmail  string     `json:"customerEmail"`
	CustomerName   string     `json:"customerName"`
	Company        string     `json:"company,omitempty"`
	Service        string     `json:"service"`
	Link           string     `json:"link"`
	ReadyLink      string     `json:"readyLink,omitempty"`
	Status         string     `json:"status"`
	IsOrder        bool       `json:"isOrder"`
	IsPending      bool       `json:"isPending"`
	IsCancelled    bool       `json:"isCancelled"`
	UnitPrice      float64    `json:"unitPrice"`
	Quantity       int        `json:"quantity"`
	TotalPrice     float64    `json:"totalPrice"`
	CustomerNote   string     `json:"customerNote,omitempty"`
	InternalNotes  string     `json:"-"`
	Revisions      []Revision `json:"revisions,omitempty"`
	FinalFileReady bool       `json:"finalFileReady"`
	FinalFileLink  string     `json:"finalFileLink,omitempty"`
	FinalFileNote  string     `json:"finalFileNote,omitempty"`
	Date           string     `json:"date"`
	Timestamp      int64      `json:"timestamp"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// PaymentEligible reports whether the customer may start the payment
// flow for this order: quoted, not yet official, not cancelled.
func (o Order) PaymentEligible() bool {
	return !o.IsOrder && !o.IsCancelled && o.TotalPrice > 0
}
