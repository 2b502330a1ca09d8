package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IgnoreCatalogID is the value a reviewer sends to skip a line on purpose
const IgnoreCatalogID = "ignore"

// BookingDecision classifies what a reviewer decided for one receipt line
type BookingDecision int

const (
	// DecisionUnresolved means no catalog id was chosen
	DecisionUnresolved BookingDecision = iota
	// DecisionIgnored means the reviewer explicitly skipped the line
	DecisionIgnored
	// DecisionConfirmed means the line carries a verified catalog id
	DecisionConfirmed
)

func (d BookingDecision) String() string {
	switch d {
	case DecisionIgnored:
		return "ignored"
	case DecisionConfirmed:
		return "confirmed"
	default:
		return "unresolved"
	}
}

// ClassifyCatalogID maps a reviewer supplied catalog id to a BookingDecision
func ClassifyCatalogID(id string) BookingDecision {
	switch id {
	case "":
		return DecisionUnresolved
	case IgnoreCatalogID:
		return DecisionIgnored
	default:
		return DecisionConfirmed
	}
}

// BookingRequest carries reviewed receipt items back for stock booking
type BookingRequest struct {
	Shop  string         `json:"shop"`
	Items []ResolvedItem `json:"items"`
}

// StockEntry is a single purchase booked into the Grocy stock
type StockEntry struct {
	ProductID          string
	Amount             decimal.Decimal
	Price              decimal.Decimal
	BestBeforeDate     time.Time
	ShoppingLocationID string
}

// BookingFailure records a confirmed item whose stock booking failed
type BookingFailure struct {
	OCRName   string `json:"ocrName"`
	CatalogID string `json:"grocyId"`
	Error     string `json:"error"`
}

// BookingSummary reports what happened to each item of a BookingRequest
type BookingSummary struct {
	Booked     int              `json:"booked"`
	Ignored    int              `json:"ignored"`
	Unresolved int              `json:"unresolved"`
	Failed     []BookingFailure `json:"failed,omitempty"`
}
