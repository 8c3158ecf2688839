// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package opinion implements the opinion poll engine: one free vote per
// participant, side switching while the window is open, and a finish that
// declares the side(s) with the maximum vote count the winners - ties
// allowed, each at full weight. No stakes, no pari-mutuel payout.
package opinion

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/pollvenue/venue/history"
	"github.com/pollvenue/venue/kv"
	"github.com/pollvenue/venue/log"
	"github.com/pollvenue/venue/metrics"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/poll/pollstore"
	"github.com/pollvenue/venue/venue"
)

var (
	logger    = log.WithContext("pkg", "opinion")
	metricOps = metrics.CounterVec("opinion_ops_total", []string{"op", "result"})

	errInitialized = errors.New("opinion: poll already initialized")
)

// Engine drives one opinion poll instance.
type Engine struct {
	mu    sync.Mutex
	store *pollstore.Store
	rec   history.Recorder
	now   func() uint64
}

// New attaches an engine to the poll storage space.
// A nil now falls back to the wall clock (unix seconds).
func New(db kv.GetPutter, now func() uint64) *Engine {
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Engine{
		store: pollstore.New(db),
		now:   now,
	}
}

// SetRecorder wires an optional operation history recorder.
func (e *Engine) SetRecorder(rec history.Recorder) {
	e.rec = rec
}

// Initialized reports whether the storage space holds a poll instance.
func (e *Engine) Initialized() (bool, error) {
	return e.store.Exists()
}

// Initialize creates the poll instance from the given config.
func (e *Engine) Initialize(cfg *poll.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if ok, err := e.store.Exists(); err != nil {
		return err
	} else if ok {
		return errInitialized
	}

	stage := e.store.NewStage()
	if err := stage.SetConfig(cfg); err != nil {
		return err
	}
	if err := stage.SetState(poll.NewState()); err != nil {
		return err
	}
	if err := stage.Commit(); err != nil {
		return err
	}
	logger.Info("poll instantiated", "name", cfg.PollName, "owner", cfg.Owner, "sides", cfg.NumSides)
	return nil
}

func (e *Engine) load() (*poll.Config, *poll.State, error) {
	cfg, err := e.store.Config()
	if err != nil {
		return nil, nil, err
	}
	st, err := e.store.State()
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func (e *Engine) record(op string, cfg *poll.Config, participant venue.Address, side int16, amount *big.Int) {
	metricOps.AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	if e.rec == nil {
		return
	}
	ev := &history.Event{
		Time:        e.now(),
		Poll:        cfg.PollName,
		Op:          op,
		Participant: participant,
		Side:        side,
		Amount:      amount,
	}
	if err := e.rec.Record(ev); err != nil {
		logger.Warn("history record failed", "op", op, "err", err)
	}
}

func reject(op string, err error) error {
	metricOps.AddWithLabel(1, map[string]string{"op": op, "result": "rejected"})
	return err
}

func (e *Engine) checkVoteLive(cfg *poll.Config, st *poll.State) error {
	now := e.now()
	if st.Status.Terminal() || now < cfg.StartTime || now >= cfg.EndTime {
		return poll.NewError(poll.CodeNotLive,
			"vote is not live. current time: %d, voting window: [%d, %d)", now, cfg.StartTime, cfg.EndTime)
	}
	return nil
}
