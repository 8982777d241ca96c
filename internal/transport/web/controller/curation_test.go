package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarbeat/newsfeed/internal/curation"
	"github.com/solarbeat/newsfeed/internal/domain"
)

type fakeCurationEditor struct {
	hidden   []string
	unhidden []string
	pinned   []domain.PinnedArticle
	unpinned []string
	err      error
}

func (f *fakeCurationEditor) Hide(_ context.Context, url string) error {
	f.hidden = append(f.hidden, url)
	return f.err
}

func (f *fakeCurationEditor) Unhide(_ context.Context, url string) error {
	f.unhidden = append(f.unhidden, url)
	return f.err
}

func (f *fakeCurationEditor) Pin(_ context.Context, p domain.PinnedArticle) error {
	f.pinned = append(f.pinned, p)
	return f.err
}

func (f *fakeCurationEditor) Unpin(_ context.Context, url string) error {
	f.unpinned = append(f.unpinned, url)
	return f.err
}

func TestCurationRead_ServesState(t *testing.T) {
	handler := CurationRead{Curation: fakeCurationReader{state: domain.CurationState{
		Hidden: []string{"https://news.test/spam"},
		Pinned: []domain.PinnedArticle{{Title: "Keeper", URL: "https://news.test/keeper"}},
	}}}

	req := httptest.NewRequest(http.MethodGet, "/api/curation", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CurationState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, []string{"https://news.test/spam"}, state.Hidden)
	require.Len(t, state.Pinned, 1)
	assert.Equal(t, "Keeper", state.Pinned[0].Title)
}

func TestCurationHide_HideAndUnhide(t *testing.T) {
	editor := &fakeCurationEditor{}
	handler := CurationHide{Curation: editor}

	req := httptest.NewRequest(http.MethodPost, "/api/curation/hide",
		strings.NewReader(`{"url":"https://news.test/spam"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, []string{"https://news.test/spam"}, editor.hidden)

	req = httptest.NewRequest(http.MethodDelete, "/api/curation/hide",
		strings.NewReader(`{"url":"https://news.test/spam"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://news.test/spam"}, editor.unhidden)
}

func TestCurationHide_RejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: "not json"},
		{name: "missing url", body: `{"note":"x"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor := &fakeCurationEditor{}
			handler := CurationHide{Curation: editor}

			req := httptest.NewRequest(http.MethodPost, "/api/curation/hide",
				strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, editor.hidden)
		})
	}
}

func TestCurationPin_PinAndUnpin(t *testing.T) {
	editor := &fakeCurationEditor{}
	handler := CurationPin{Curation: editor}

	body := `{
		"url": "https://news.test/milestone",
		"title": "Big solar milestone",
		"source": "Example Times",
		"category": "Science",
		"readTime": 3,
		"note": "must-read"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/curation/pin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, editor.pinned, 1)
	pin := editor.pinned[0]
	assert.Equal(t, "Big solar milestone", pin.Title)
	assert.Equal(t, domain.CategoryScience, pin.Category)
	assert.Equal(t, "must-read", pin.Note)

	req = httptest.NewRequest(http.MethodDelete, "/api/curation/pin",
		strings.NewReader(`{"url":"https://news.test/milestone"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://news.test/milestone"}, editor.unpinned)
}

func TestCurationPin_RequiresURLAndTitle(t *testing.T) {
	editor := &fakeCurationEditor{}
	handler := CurationPin{Curation: editor}

	req := httptest.NewRequest(http.MethodPost, "/api/curation/pin",
		strings.NewReader(`{"url":"https://news.test/a"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, editor.pinned)
}

func TestCurationHide_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         &curation.ValidationError{Message: "invalid article URL"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid article URL",
		},
		{
			name:        "storage failure",
			err:         errors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Unable to save curation change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CurationHide{Curation: &fakeCurationEditor{err: tt.err}}

			req := httptest.NewRequest(http.MethodPost, "/api/curation/hide",
				strings.NewReader(`{"url":"https://news.test/a"}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["error"])
		})
	}
}
