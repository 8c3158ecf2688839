// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package history keeps a queryable record of executed poll operations.
package history

import (
	"context"
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/pollvenue/venue/venue"
)

// Event is one executed operation.
type Event struct {
	Time        uint64        `json:"time"`
	Poll        string        `json:"poll"`
	Op          string        `json:"op"`
	Participant venue.Address `json:"participant"`
	Side        int16         `json:"side"`   // -1 when not applicable
	Amount      *big.Int      `json:"amount"` // nil when not applicable
}

// Recorder accepts events for persistence.
type Recorder interface {
	Record(*Event) error
}

// History is a sqlite backed event store.
type History struct {
	path string
	db   *sql.DB
}

// New create or open history db at given path.
func New(path string) (history *History, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if history == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &History{path, db}, nil
}

// NewMem create a history db in ram.
func NewMem() (*History, error) {
	return New(":memory:")
}

// Close close the history db.
func (h *History) Close() error {
	return h.db.Close()
}

// Path returns the db file path.
func (h *History) Path() string {
	return h.path
}

// Record inserts one event.
func (h *History) Record(ev *Event) error {
	var amount interface{}
	if ev.Amount != nil {
		amount = ev.Amount.String()
	}
	_, err := h.db.Exec(
		"INSERT INTO event(ts, poll, op, participant, side, amount) VALUES(?,?,?,?,?,?)",
		ev.Time, ev.Poll, ev.Op, ev.Participant.Bytes(), ev.Side, amount)
	return errors.Wrap(err, "history record")
}

// Filter selects events; zero valued criteria are ignored.
type Filter struct {
	Poll        string
	Op          string
	Participant *venue.Address
	From        uint64
	To          uint64
	Limit       int
}

// Query returns events matching the filter, newest first.
func (h *History) Query(ctx context.Context, filter *Filter) ([]*Event, error) {
	stmt := "SELECT ts, poll, op, participant, side, amount FROM event WHERE 1"
	var args []interface{}
	if filter != nil {
		if filter.Poll != "" {
			stmt += " AND poll = ?"
			args = append(args, filter.Poll)
		}
		if filter.Op != "" {
			stmt += " AND op = ?"
			args = append(args, filter.Op)
		}
		if filter.Participant != nil {
			stmt += " AND participant = ?"
			args = append(args, filter.Participant.Bytes())
		}
		if filter.From > 0 {
			stmt += " AND ts >= ?"
			args = append(args, filter.From)
		}
		if filter.To > 0 {
			stmt += " AND ts <= ?"
			args = append(args, filter.To)
		}
	}
	stmt += " ORDER BY ts DESC, rowid DESC"
	if filter != nil && filter.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := h.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "history query")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev          Event
			participant []byte
			amount      sql.NullString
		)
		if err := rows.Scan(&ev.Time, &ev.Poll, &ev.Op, &participant, &ev.Side, &amount); err != nil {
			return nil, errors.Wrap(err, "history scan")
		}
		ev.Participant = venue.BytesToAddress(participant)
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.New("history: malformed amount")
			}
			ev.Amount = v
		}
		events = append(events, &ev)
	}
	return events, errors.Wrap(rows.Err(), "history query")
}
