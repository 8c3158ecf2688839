// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pollvenue/venue/api/utils"
	"github.com/pollvenue/venue/history"
	"github.com/pollvenue/venue/venue"
)

// Events serves the operation history.
type Events struct {
	db    *history.History
	limit int
}

// New creates the handler. limit caps the page size of any query.
func New(db *history.History, limit int) *Events {
	return &Events{db, limit}
}

func (e *Events) parseFilter(req *http.Request) (*history.Filter, error) {
	query := req.URL.Query()
	filter := &history.Filter{
		Poll:  query.Get("poll"),
		Op:    query.Get("op"),
		Limit: e.limit,
	}
	if raw := query.Get("participant"); raw != "" {
		addr, err := venue.ParseAddress(raw)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "participant"))
		}
		filter.Participant = addr
	}
	for _, bound := range []struct {
		name string
		dest *uint64
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := query.Get(bound.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, bound.name))
		}
		*bound.dest = v
	}
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return nil, utils.BadRequest(errors.Errorf("limit: invalid value %q", raw))
		}
		if v < filter.Limit {
			filter.Limit = v
		}
	}
	return filter, nil
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.Query(req.Context(), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*history.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
}
