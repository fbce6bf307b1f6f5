package models

const (
	SwipeLeft  = "left"
	SwipeRight = "right"
)

// Swipe is write-once; Timestamp is RFC3339 UTC so string ordering matches time ordering.
type Swipe struct {
	ID        string `firestore:"id" json:"id"`
	UID       string `firestore:"uid" json:"uid"`
	BrandID   string `firestore:"brandId" json:"brandId"`
	Direction string `firestore:"direction" json:"direction"`
	Timestamp string `firestore:"timestamp" json:"timestamp"`
}
