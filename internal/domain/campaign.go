package domain

// Campaign is a geofenced notification context owned by whoever holds AdminToken.
type Campaign struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminEmail  string `json:"admin_email"`
	AdminToken  string `json:"admin_token,omitempty"`
	Center      Point  `json:"center"`
	Zoom        int    `json:"zoom"`
}

// CampaignInput is the request body for creating or updating a campaign.
type CampaignInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	AdminEmail  string `json:"admin_email" validate:"required,email,max=255"`
	Center      *Point `json:"center" validate:"required"`
	Zoom        int    `json:"zoom" validate:"gte=0,lte=32767"`
}
