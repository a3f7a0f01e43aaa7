package service

import (
	"strings"
	"time"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

// TrackingView is the customer-facing projection of an order: no user
// linkage, no gateway transaction ids.
type TrackingView struct {
	OrderID       string             `json:"order_id"`
	Status        domain.OrderStatus `json:"status"`
	ProgressPct   int                `json:"progress_pct"`
	Step          string             `json:"step"`
	ETAFrom       time.Time          `json:"eta_from"`
	ETATo         time.Time          `json:"eta_to"`
	Amount        float64            `json:"amount"`
	Payment       bool               `json:"payment"`
	PaymentMethod string             `json:"payment_method"`
	DeliveryLabel string             `json:"delivery_label"`
	Items         []trackingItem     `json:"items"`
	PlacedAt      time.Time          `json:"placed_at"`
}

type trackingItem struct {
	Name     string `json:"name"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

type progressStep struct {
	match string
	step  string
	pct   int
}

// Ordered: later (more specific) statuses first so substring matching
// cannot stop at an earlier step. "out for delivery" must be checked
// before "delivery"-ish terms and never confused with "delivered".
var progressTable = []progressStep{
	{match: "delivered", step: "Delivered", pct: 100},
	{match: "out for delivery", step: "Out for Delivery", pct: 90},
	{match: "shipped", step: "Shipped", pct: 70},
	{match: "processing", step: "Processing", pct: 45},
	{match: "paid", step: "Paid", pct: 25},
	{match: "placed", step: "Order Placed", pct: 10},
}

type etaWindow struct{ from, to int }

// Delivery windows in days, keyed by fee area label.
var etaByLabel = map[string]etaWindow{
	"Inside Dhaka":  {2, 4},
	"Dhaka Suburb":  {3, 5},
	"Outside Dhaka": {4, 7},
}

// TrackingProjector builds sanitized tracking views. The clock is
// injected because ETA is always computed from "now".
type TrackingProjector struct {
	now func() time.Time
}

// NewTrackingProjector takes the clock to compute ETAs from; nil means
// the wall clock.
func NewTrackingProjector(clock func() time.Time) *TrackingProjector {
	if clock == nil {
		clock = time.Now
	}
	return &TrackingProjector{now: clock}
}

// Project maps an order to its customer view. Failure statuses show
// 0% progress; unknown but non-failure statuses fall back to the
// initial step instead of erroring.
func (p *TrackingProjector) Project(order *domain.Order) TrackingView {
	pct, step := progressFor(order.Status)

	win, ok := etaByLabel[order.Delivery.Label]
	if !ok {
		win = etaWindow{4, 7}
	}
	// An order already on the road gets a compressed window.
	if step == "Shipped" || step == "Out for Delivery" {
		win = etaWindow{1, 2}
	}

	now := p.now()
	view := TrackingView{
		OrderID:       order.OrderID,
		Status:        order.Status,
		ProgressPct:   pct,
		Step:          step,
		ETAFrom:       now.AddDate(0, 0, win.from),
		ETATo:         now.AddDate(0, 0, win.to),
		Amount:        order.Amount,
		Payment:       order.Payment,
		PaymentMethod: string(order.PaymentMethod),
		DeliveryLabel: order.Delivery.Label,
		Items:         make([]trackingItem, 0, len(order.Items)),
		PlacedAt:      order.CreatedAt,
	}
	for _, it := range order.Items {
		view.Items = append(view.Items, trackingItem{
			Name:     it.Name,
			Size:     it.Size,
			Quantity: it.Quantity,
		})
	}
	return view
}

func progressFor(status domain.OrderStatus) (int, string) {
	if status.IsFailure() {
		return 0, string(status)
	}
	s := strings.ToLower(string(status))
	for _, row := range progressTable {
		if strings.Contains(s, row.match) {
			return row.pct, row.step
		}
	}
	// Operators can set free-form statuses; show those as the first step.
	return progressTable[len(progressTable)-1].pct, progressTable[len(progressTable)-1].step
}
