package dto

type IntelCard struct {
	ID      string `json:"id"`
	Concept string `json:"concept"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Example string `json:"example"`
}
