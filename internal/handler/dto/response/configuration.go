package response

import (
	"omiam-waitlist/internal/usecase/queries"
)

type TemplateResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Channels  []string `json:"channels"`
	Subject   string   `json:"subject"`
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
	Active    bool     `json:"active"`
}

func FromTemplateViews(views []queries.TemplateView) []TemplateResponse {
	out := make([]TemplateResponse, len(views))
	for i, v := range views {
		out[i] = TemplateResponse(v)
	}
	return out
}
