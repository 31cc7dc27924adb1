package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// errorCode is a machine-readable error kind.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeInvalidCursor      errorCode = "invalid_cursor"
	codeUnauthorized       errorCode = "unauthorized"
	codeStoreUnavailable   errorCode = "store_unavailable"
	codeTextSearchNotReady errorCode = "text_search_not_supported"
	codeTimeout            errorCode = "timeout"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type itemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	InStock     bool      `json:"in_stock"`
	Forms       []string  `json:"forms,omitempty"`
	Potencies   []string  `json:"potencies,omitempty"`
	SymptomTags []string  `json:"symptom_tags,omitempty"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
	ImageURL    string    `json:"image_url"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type pageResponse struct {
	Items      []itemResponse `json:"items"`
	IsDone     bool           `json:"is_done"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type searchResponse struct {
	Items []itemResponse `json:"items"`
	Total int            `json:"total"`
}

type countResponse struct {
	Count int `json:"count"`
}

type healthResponse struct {
	Status    string             `json:"status"`
	Version   string             `json:"version"`
	Checks    map[string]string  `json:"checks"`
	LatencyMS map[string]float64 `json:"latency_ms,omitempty"`
}

func itemToResponse(e *item.Enriched) itemResponse {
	return itemResponse{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		Brand:       e.Brand(),
		Category:    e.Category(),
		Price:       e.BasePrice(),
		Stock:       e.Stock(),
		InStock:     e.Stock() > 0,
		Forms:       e.Forms(),
		Potencies:   e.Potencies(),
		SymptomTags: e.SymptomTags(),
		Rating:      e.AverageRating(),
		RatingCount: e.RatingCount(),
		ImageURL:    e.ImageURL(),
		Images:      e.Media().Gallery,
		CreatedAt:   e.CreatedAt(),
	}
}

func itemsToResponse(items []item.Enriched) []itemResponse {
	out := make([]itemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(&items[i])
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
