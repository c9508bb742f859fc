package domain

// Point is a WGS84 longitude/latitude pair.
type Point struct {
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
}
