package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/solarbeat/newsfeed/internal/curation"
	"github.com/solarbeat/newsfeed/internal/domain"
)

// CurationEditor is the mutation surface of the curation store. Every
// operation persists synchronously before returning.
type CurationEditor interface {
	Hide(ctx context.Context, url string) error
	Unhide(ctx context.Context, url string) error
	Pin(ctx context.Context, p domain.PinnedArticle) error
	Unpin(ctx context.Context, url string) error
}

// CurationRead exposes current editorial state. Unauthenticated; editorial
// picks are not secret.
type CurationRead struct {
	Curation CurationReader
}

func (c CurationRead) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, c.Curation.State())
}

type urlRequest struct {
	URL string `json:"url"`
}

func decodeURLRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, r, http.StatusBadRequest, "Request body must be JSON with a url field")
		return "", false
	}
	return req.URL, true
}

// CurationHide handles POST (hide) and DELETE (unhide) for the hidden set.
type CurationHide struct {
	Curation CurationEditor
}

func (c CurationHide) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	url, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	var err error
	if r.Method == http.MethodDelete {
		err = c.Curation.Unhide(r.Context(), url)
	} else {
		err = c.Curation.Hide(r.Context(), url)
	}

	if err != nil {
		handleCurationError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, okResponse{OK: true})
}

type pinRequest struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
	Category    string    `json:"category"`
	Note        string    `json:"note"`
}

// CurationPin handles POST (pin) and DELETE (unpin) for the pinned list.
type CurationPin struct {
	Curation CurationEditor
}

func (c CurationPin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		url, ok := decodeURLRequest(w, r)
		if !ok {
			return
		}
		if err := c.Curation.Unpin(r.Context(), url); err != nil {
			handleCurationError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, okResponse{OK: true})
		return
	}

	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" || req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "Request body must be JSON with url and title fields")
		return
	}

	pin := domain.PinnedArticle{
		Title:       req.Title,
		Source:      req.Source,
		Author:      req.Author,
		Description: req.Description,
		URL:         req.URL,
		Image:       req.Image,
		PublishedAt: req.PublishedAt,
		ReadTime:    req.ReadTime,
		Category:    domain.Category(req.Category),
		Note:        req.Note,
	}

	if err := c.Curation.Pin(r.Context(), pin); err != nil {
		handleCurationError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, okResponse{OK: true})
}

// handleCurationError distinguishes rejected input from persistence failure.
// The store validates URLs before mutating anything, so validation errors
// surface as 400 and everything else is a storage fault.
func handleCurationError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var validation *curation.ValidationError
	if errors.As(err, &validation) {
		logger.WarnContext(ctx, "rejected curation request", "error", err)
		writeError(w, r, http.StatusBadRequest, validation.Message)
		return
	}

	logger.ErrorContext(ctx, "curation operation failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, "Unable to save curation change")
}
