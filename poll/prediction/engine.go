// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package prediction implements the pari-mutuel prediction poll engine:
// stakes accumulate per (side, participant) during the betting window,
// settlement redistributes the fee-adjusted pool to the winning side in
// proportion to stakes, and rewards are claimable one-shot afterwards.
package prediction

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
	logger    = log.WithContext("pkg", "prediction")
	metricOps = metrics.CounterVec("prediction_ops_total", []string{"op", "result"})

	errInitialized = errors.New("prediction: poll already initialized")
)

// Engine drives one prediction poll instance.
//
// Operations never run concurrently against the same instance; each call
// is staged fully and committed in one batch, so a failed call leaves no
// observable mutation.
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
// It fails if the instance already exists.
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
	logger.Info("poll instantiated",
		"name", cfg.PollName,
		"owner", cfg.Owner,
		"sides", cfg.NumSides,
		"deposit", cfg.DepositAmount)
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

// deriveStatus maps stored status plus the clock onto the public lifecycle
// status. Betting and BetHold exist only in this derived view.
func deriveStatus(cfg *poll.Config, st *poll.State, now uint64) poll.Status {
	if st.Status.Terminal() {
		return st.Status
	}
	switch {
	case now < cfg.StartTime:
		return poll.StatusCreated
	case now < cfg.EndTime:
		return poll.StatusBetting
	default:
		return poll.StatusBetHold
	}
}
