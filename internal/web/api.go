package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/contact"
	"github.com/sgx-labs/folio/internal/explorer"
)

type explorerResponse struct {
	Collection string          `json:"collection"`
	Query      string          `json:"query"`
	Type       string          `json:"type"`
	Sort       string          `json:"sort"`
	Count      int             `json:"count"`
	Summary    string          `json:"summary"`
	Types      []string        `json:"types"`
	Items      []explorer.Item `json:"items"`
}

// handleExplorer runs the explorer pipeline for ?q=&type=&sort= and returns
// the visible items.
func (s *Server) handleExplorer(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if !catalog.Known(collection) {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	v := r.URL.Query()
	sort := s.defaultSort
	if raw := v.Get("sort"); raw != "" {
		m, err := explorer.ParseSortMode(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "sort must be newest or oldest")
			return
		}
		sort = m
	}
	if len(v.Get("q")) > explorer.MaxQueryLen {
		writeError(w, http.StatusBadRequest, "query too long")
		return
	}

	items, err := s.items(collection)
	if err != nil {
		s.log.Error("load collection", zap.String("collection", collection), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "collection unavailable")
		return
	}

	sess := explorer.NewSession(items, s.defaultSort)
	sess.SetSort(sort)
	sess.SetType(v.Get("type"))
	sess.SetQuery(v.Get("q"))

	res := sess.Result()
	out := res.Items
	if out == nil {
		out = []explorer.Item{}
	}
	writeJSON(w, http.StatusOK, explorerResponse{
		Collection: collection,
		Query:      sess.Query(),
		Type:       sess.Type(),
		Sort:       sess.Sort().String(),
		Count:      res.Count,
		Summary:    sess.Summary(),
		Types:      sess.TypeOptions(),
		Items:      out,
	})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contact.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, contact.Response{Error: contact.MsgBadRequest})
			return
		}
		writeJSON(w, http.StatusBadRequest, contact.Response{Error: contact.MsgBadRequest})
		return
	}

	resp, code := s.contact.Submit(r.Context(), contact.ClientID(r), req)
	writeJSON(w, code, resp)
}
