package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/curation"
	"github.com/umputun/feedscope/pkg/feed"
	"github.com/umputun/feedscope/pkg/prefs"
)

const defaultPageSize = 10

// feedHandler assembles one feed page for the requested backend feed
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseFeedParams(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			renderError(w, r, errors.New("limit must be between 1 and 100"), http.StatusBadRequest)
			return
		}
	}

	var prior *feed.Cursor
	if v := r.URL.Query().Get("cursor"); v != "" {
		prior, err = decodeCursor(v)
		if err != nil {
			renderError(w, r, fmt.Errorf("invalid cursor: %w", err), http.StatusBadRequest)
			return
		}
	}

	var ses *curation.Session
	if id := r.URL.Query().Get("session"); id != "" {
		var ok bool
		ses, ok = s.sessions.Get(id)
		if !ok {
			renderError(w, r, errors.New("session not found"), http.StatusNotFound)
			return
		}
	}

	uid := r.URL.Query().Get("uid")
	page, err := s.feeder.GetPage(r.Context(), ses, uid, params, limit, prior)
	if err != nil {
		renderError(w, r, fmt.Errorf("failed to get feed page: %w", err), http.StatusInternalServerError)
		return
	}

	resp := feedResponse{Slices: page.Slices, CID: page.CID}
	if page.Cursor != nil {
		resp.Cursor, err = encodeCursor(page.Cursor)
		if err != nil {
			renderError(w, r, fmt.Errorf("failed to encode cursor: %w", err), http.StatusInternalServerError)
			return
		}
	}
	if ses != nil {
		resp.SessionState = string(ses.State())
	}
	renderJSON(w, r, http.StatusOK, resp)
}

type feedResponse struct {
	Slices       interface{} `json:"slices"`
	CID          string      `json:"cid,omitempty"`
	Cursor       string      `json:"cursor,omitempty"`
	SessionState string      `json:"session_state,omitempty"`
}

// feedLatestHandler returns the CID of the newest post without consuming a page
func (s *Server) feedLatestHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseFeedParams(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	cid, err := s.feeder.GetLatest(r.Context(), params)
	if err != nil {
		renderError(w, r, fmt.Errorf("failed to get latest: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"cid": cid})
}

// createSessionHandler starts a new curation session
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	ses := s.sessions.Create()
	renderJSON(w, r, http.StatusCreated, map[string]string{"id": ses.ID, "state": string(ses.State())})
}

// deleteSessionHandler ends a curation session and drops its state
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// feedbackHandler submits one natural-language feedback fragment to a session
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	ses, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		renderError(w, r, errors.New("session not found"), http.StatusNotFound)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("failed to decode request: %w", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		renderError(w, r, errors.New("feedback text is required"), http.StatusBadRequest)
		return
	}

	round := ses.AddFeedback(req.Text)
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"round": round, "state": string(ses.State())})
}

// getPrefsHandler returns stored preferences for an account
func (s *Server) getPrefsHandler(w http.ResponseWriter, r *http.Request) {
	account, err := s.prefs.Get(r.Context(), r.PathValue("did"))
	if err != nil {
		renderError(w, r, fmt.Errorf("failed to get preferences: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, account)
}

// putPrefsHandler replaces stored preferences for an account
func (s *Server) putPrefsHandler(w http.ResponseWriter, r *http.Request) {
	var account prefs.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		renderError(w, r, fmt.Errorf("failed to decode request: %w", err), http.StatusBadRequest)
		return
	}
	account.DID = r.PathValue("did")

	if err := s.prefs.Upsert(r.Context(), account); err != nil {
		renderError(w, r, fmt.Errorf("failed to save preferences: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, account)
}

// setTempMuteHandler snoozes an actor for an account until the given time
func (s *Server) setTempMuteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Actor string    `json:"actor"`
		Until time.Time `json:"until"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("failed to decode request: %w", err), http.StatusBadRequest)
		return
	}
	if req.Actor == "" {
		renderError(w, r, errors.New("actor is required"), http.StatusBadRequest)
		return
	}
	if !req.Until.After(time.Now()) {
		renderError(w, r, errors.New("until must be in the future"), http.StatusBadRequest)
		return
	}

	if err := s.prefs.SetTempMute(r.Context(), r.PathValue("did"), req.Actor, req.Until); err != nil {
		renderError(w, r, fmt.Errorf("failed to set mute: %w", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteTempMuteHandler lifts a snooze before it expires
func (s *Server) deleteTempMuteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.prefs.DeleteTempMute(r.Context(), r.PathValue("did"), r.PathValue("actor")); err != nil {
		renderError(w, r, fmt.Errorf("failed to delete mute: %w", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFeedParams extracts and validates feed selection from query params
func parseFeedParams(r *http.Request) (bluesky.FeedParams, error) {
	q := r.URL.Query()
	params := bluesky.FeedParams{
		Kind:      bluesky.FeedKind(q.Get("kind")),
		Algorithm: q.Get("algorithm"),
		URI:       q.Get("uri"),
		Actor:     q.Get("actor"),
		Tab:       bluesky.ProfileTab(q.Get("tab")),
		Query:     q.Get("query"),
	}
	if params.Kind == "" {
		params.Kind = bluesky.KindHome
	}

	switch params.Kind {
	case bluesky.KindHome:
	case bluesky.KindFeed, bluesky.KindList:
		if params.URI == "" {
			return params, errors.New("uri is required for feed and list kinds")
		}
	case bluesky.KindProfile:
		if params.Actor == "" {
			return params, errors.New("actor is required for profile kind")
		}
		if params.Tab == "" {
			params.Tab = bluesky.TabPosts
		}
	case bluesky.KindSearch:
		if params.Query == "" {
			return params, errors.New("query is required for search kind")
		}
	default:
		return params, fmt.Errorf("unknown feed kind %q", params.Kind)
	}
	return params, nil
}

// encodeCursor packs a pagination cursor into an opaque token
func encodeCursor(c *feed.Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// decodeCursor unpacks an opaque token produced by encodeCursor
func decodeCursor(token string) (*feed.Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}
	res := &feed.Cursor{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}
	return res, nil
}
