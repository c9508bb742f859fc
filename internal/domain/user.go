package domain

// User is a subscription of one email address at one location to one campaign.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Token      string `json:"token,omitempty"`
	Location   Point  `json:"location"`
	Zoom       int    `json:"zoom"`
	CampaignID int64  `json:"campaign_id"`
}

type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Location   *Point `json:"location" validate:"required"`
	Zoom       int    `json:"zoom" validate:"gte=0,lte=32767"`
	CampaignID int64  `json:"campaign_id" validate:"required,gt=0"`
}

// UpdateUserRequest carries the subscription token in the body; the id comes from the path.
type UpdateUserRequest struct {
	Token    string `json:"token" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Location *Point `json:"location" validate:"required"`
	Zoom     int    `json:"zoom" validate:"gte=0,lte=32767"`
}
