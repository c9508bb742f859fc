package domain

import "time"

// Target is a subscriber selected by a proximity query.
type Target struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}

// Targets is the result of an authorized proximity query: the campaign as
// stored plus every subscriber inside the circle.
type Targets struct {
	Campaign   Campaign
	Recipients []Target
}

// CampaignRef identifies a campaign and carries the admin token presented for it.
type CampaignRef struct {
	ID         int64  `json:"id" validate:"required,gt=0"`
	AdminToken string `json:"admin_token"`
}

// NotifyRequest asks for every subscriber within Distance meters of (Lng, Lat)
// to be notified.
type NotifyRequest struct {
	Campaign CampaignRef `json:"campaign"`
	Lng      float64     `json:"lng" validate:"gte=-180,lte=180"`
	Lat      float64     `json:"lat" validate:"gte=-90,lte=90"`
	Distance float64     `json:"distance" validate:"gte=0"`
}

// Sender is the identity notification mail is sent from.
type Sender struct {
	Name    string
	Address string
}

// Message is one addressed notification email.
type Message struct {
	From    Sender
	To      string
	Subject string
	Text    string
}

// Delivery statuses recorded in the delivery ledger.
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// Delivery records the outcome of one send within a notify batch.
type Delivery struct {
	BatchID    string    `json:"batch_id" dynamodbav:"batch_id"`
	UserID     int64     `json:"user_id" dynamodbav:"user_id"`
	CampaignID int64     `json:"campaign_id" dynamodbav:"campaign_id"`
	Email      string    `json:"email" dynamodbav:"email"`
	Status     string    `json:"status" dynamodbav:"status"`
	Error      string    `json:"error,omitempty" dynamodbav:"error,omitempty"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

// BatchSummary describes a settled notify batch.
type BatchSummary struct {
	BatchID    string    `json:"batch_id"`
	CampaignID int64     `json:"campaign_id"`
	Center     Point     `json:"center"`
	Distance   float64   `json:"distance"`
	Subject    string    `json:"subject"`
	Recipients []Target  `json:"recipients"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	SettledAt  time.Time `json:"settled_at"`
	// Manifest is where the archived copy of this summary was written.
	Manifest string `json:"manifest,omitempty"`
}
