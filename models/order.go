package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the primary pipeline state of an order. Only the eight
// declared values are valid; the dashboard tabs map 1:1 onto them.
type OrderStatus string

const (
	StatusOngoing      OrderStatus = "ongoing"     // newly created, not yet in design review
	StatusDesignReview OrderStatus = "status"      // the "Status" tab: 3-step design review
	StatusSizing       OrderStatus = "sizing"
	StatusPrinting     OrderStatus = "printing"
	StatusDonePrint    OrderStatus = "done_print"
	StatusToSew        OrderStatus = "to_sew"
	StatusToDeliver    OrderStatus = "to_deliver"
	StatusFinished     OrderStatus = "finished"
)

// OrderStatuses lists every valid status in pipeline order.
var OrderStatuses = []OrderStatus{
	StatusOngoing,
	StatusDesignReview,
	StatusSizing,
	StatusPrinting,
	StatusDonePrint,
	StatusToSew,
	StatusToDeliver,
	StatusFinished,
}

// IsValid reports whether s is one of the eight declared statuses.
func (s OrderStatus) IsValid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DeliveryStatus tracks physical delivery once an order reaches to_deliver.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryOutForDel DeliveryStatus = "Out for Delivery"
	DeliveryDelivered DeliveryStatus = "Delivered"
)

// DeliveryStatuses lists the valid delivery states.
var DeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryOutForDel, DeliveryDelivered}

// IsValid reports whether d is a declared delivery status.
func (d DeliveryStatus) IsValid() bool {
	for _, v := range DeliveryStatuses {
		if d == v {
			return true
		}
	}
	return false
}

// ImageState is the tagged state of an order's mockup attachment.
type ImageState string

const (
	ImageNone    ImageState = "none"    // no mockup attached
	ImagePending ImageState = "pending" // compression/upload in flight
	ImageReady   ImageState = "ready"   // stored, ImageKey set
)

// ProgressStages is the ordered 3-step sub-pipeline inside the design
// review status. The progress bar is (index+1)/3.
var ProgressStages = []string{
	"Design Approved",
	"Change Shirt Type",
	"Color Correction",
}

// ShirtStyles is the closed set of garment styles offered by the shop.
var ShirtStyles = []string{
	"Cropped Jersey",
	"T-shirt Round Neck",
	"T-shirt V-Neck",
	"Sleeveless",
	"Full Set",
	"Basketball Jersey",
	"Volleyball Jersey",
	"Longsleeve",
	"Warmers",
	"Polo Shirt",
}

// Fabrics is the closed set of fabric types.
var Fabrics = []string{
	"Aircool",
	"Shiny",
	"Interlock",
	"Honeycomb",
	"Microfiber",
	"Eyelet",
	"Dryfit Mesh",
}

// SizeLabels is the fixed, exhaustive set of size keys. No key may be
// added or removed after creation.
var SizeLabels = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL"}

// SizeChart maps each size label to a non-negative count. It is stored
// as a JSON column so the persisted record keeps the flat document shape.
type SizeChart map[string]int

// EmptySizeChart returns a chart with every size label present and zero.
func EmptySizeChart() SizeChart {
	chart := make(SizeChart, len(SizeLabels))
	for _, label := range SizeLabels {
		chart[label] = 0
	}
	return chart
}

// Value implements driver.Valuer for gorm serialization.
func (c SizeChart) Value() (driver.Value, error) {
	if c == nil {
		c = EmptySizeChart()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal size chart: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for gorm deserialization.
func (c *SizeChart) Scan(value interface{}) error {
	if value == nil {
		*c = EmptySizeChart()
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported size chart column type %T", value)
	}
	if len(data) == 0 {
		*c = EmptySizeChart()
		return nil
	}
	return json.Unmarshal(data, c)
}

// Order represents a team's print order in the system
type Order struct {
	ID             string         `gorm:"primaryKey" json:"id"` // opaque, assigned at creation
	TeamName       string         `gorm:"not null" json:"team_name"`
	Deadline       string         `json:"deadline"` // calendar date, YYYY-MM-DD
	ImageState     ImageState     `gorm:"not null;default:'none'" json:"image_state"`
	ImageKey       string         `json:"image_key,omitempty"`          // storage key, set when ImageState is ready
	ImageURL       string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the mockup
	Style          string         `json:"style"`                        // one of ShirtStyles or empty
	Fabric         string         `json:"fabric"`                       // one of Fabrics or empty
	Sizes          SizeChart      `gorm:"type:text" json:"sizes"`
	Quantity       int            `json:"quantity"` // independently authoritative, not derived from Sizes
	Status         OrderStatus    `gorm:"not null;default:'ongoing';index" json:"status"`
	ProgressStage  string         `json:"progress_stage"` // meaningful only while Status is design review
	SizingNotes    string         `gorm:"type:text" json:"sizing_notes"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uint           `gorm:"not null;index" json:"user_id"` // owning user, never crossed
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// NewDraftOrder returns a well-formed order with pipeline defaults for
// the given owner. Pure default construction, no error conditions.
func NewDraftOrder(userID uint) Order {
	return Order{
		Status:         StatusOngoing,
		ProgressStage:  ProgressStages[0],
		DeliveryStatus: DeliveryPending,
		ImageState:     ImageNone,
		Sizes:          EmptySizeChart(),
		Quantity:       0,
		CreatedAt:      time.Now(),
		UserID:         userID,
	}
}

// ValidationError signals a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateForCreate checks the invariants an order must satisfy before
// it is persisted for the first time. Team name is the only mandatory
// field at creation time.
func (o *Order) ValidateForCreate() error {
	if o.TeamName == "" {
		return &ValidationError{Field: "team_name", Message: "Team name is required"}
	}
	if !o.Status.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("Invalid status %q", o.Status)}
	}
	return nil
}

// Normalize fills defaults on records persisted by older versions of the
// dashboard that may be missing later fields. Applied uniformly whenever
// an order is loaded from storage.
func (o *Order) Normalize() {
	if o.Status == "" || !o.Status.IsValid() {
		o.Status = StatusOngoing
	}
	if StageIndex(o.ProgressStage) < 0 {
		o.ProgressStage = ProgressStages[0]
	}
	if !o.DeliveryStatus.IsValid() {
		o.DeliveryStatus = DeliveryPending
	}
	if o.ImageState != ImagePending && o.ImageState != ImageReady {
		o.ImageState = ImageNone
	}
	if o.Sizes == nil {
		o.Sizes = EmptySizeChart()
		return
	}
	// Size keys are fixed and exhaustive: fill missing labels, drop strays.
	normalized := EmptySizeChart()
	for _, label := range SizeLabels {
		if n, ok := o.Sizes[label]; ok && n > 0 {
			normalized[label] = n
		}
	}
	o.Sizes = normalized
}
