// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pollvenue/venue/api/polls"
	"github.com/pollvenue/venue/history"
	"github.com/pollvenue/venue/kv"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/poll/opinion"
	"github.com/pollvenue/venue/poll/prediction"
	"github.com/pollvenue/venue/venue"
)

// pollDefinition is one poll entry of the definitions file. Amounts are
// decimal strings so arbitrarily large values survive the yaml trip.
type pollDefinition struct {
	Name                 string        `yaml:"name"`
	Kind                 string        `yaml:"kind"`
	Owner                venue.Address `yaml:"owner"`
	Generator            venue.Address `yaml:"generator"`
	TokenContract        venue.Address `yaml:"token_contract"`
	DepositAmount        string        `yaml:"deposit_amount"`
	ReclaimableThreshold string        `yaml:"reclaimable_threshold"`
	MinimumBetAmount     string        `yaml:"minimum_bet_amount"`
	Denom                string        `yaml:"denom"`
	StartTime            uint64        `yaml:"start_time"`
	EndTime              uint64        `yaml:"end_time"`
	ResolutionTime       uint64        `yaml:"resolution_time"`
	CancelHold           uint64        `yaml:"cancel_hold"`
	NumSides             uint8         `yaml:"num_sides"`
	TaxPercent           uint8         `yaml:"tax_percentage"`
}

type pollsFile struct {
	Polls []pollDefinition `yaml:"polls"`
}

func loadPollDefinitions(path string) ([]pollDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read poll definitions")
	}
	var file pollsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WithMessage(err, "parse poll definitions")
	}
	if len(file.Polls) == 0 {
		return nil, errors.New("poll definitions: no polls defined")
	}
	seen := make(map[string]bool)
	for i := range file.Polls {
		def := &file.Polls[i]
		if def.Name == "" {
			return nil, errors.Errorf("poll definitions: entry %d has no name", i)
		}
		if seen[def.Name] {
			return nil, errors.Errorf("poll definitions: duplicated name %q", def.Name)
		}
		seen[def.Name] = true
		if def.Kind != polls.KindPrediction && def.Kind != polls.KindOpinion {
			return nil, errors.Errorf("poll %q: unknown kind %q", def.Name, def.Kind)
		}
	}
	return file.Polls, nil
}

func parseAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("malformed amount %q", raw)
	}
	return v, nil
}

func (d *pollDefinition) toConfig() (*poll.Config, error) {
	deposit, err := parseAmount(d.DepositAmount)
	if err != nil {
		return nil, errors.WithMessage(err, "deposit_amount")
	}
	threshold, err := parseAmount(d.ReclaimableThreshold)
	if err != nil {
		return nil, errors.WithMessage(err, "reclaimable_threshold")
	}
	minimumBet, err := parseAmount(d.MinimumBetAmount)
	if err != nil {
		return nil, errors.WithMessage(err, "minimum_bet_amount")
	}
	return &poll.Config{
		Owner:                d.Owner,
		Generator:            d.Generator,
		TokenContract:        d.TokenContract,
		DepositAmount:        deposit,
		ReclaimableThreshold: threshold,
		MinimumBetAmount:     minimumBet,
		PollName:             d.Name,
		Denom:                d.Denom,
		StartTime:            d.StartTime,
		EndTime:              d.EndTime,
		ResolutionTime:       d.ResolutionTime,
		CancelHold:           d.CancelHold,
		NumSides:             d.NumSides,
		TaxPercent:           d.TaxPercent,
	}, nil
}

// buildVenues attaches an engine per definition, each in its own bucket
// of the shared database, instantiating polls that don't exist yet.
func buildVenues(db kv.GetPutter, rec *history.History, defs []pollDefinition) (map[string]*polls.Venue, error) {
	venues := make(map[string]*polls.Venue, len(defs))
	for i := range defs {
		def := &defs[i]
		store := kv.Bucket("p-" + def.Name).NewStore(db)

		switch def.Kind {
		case polls.KindPrediction:
			engine := prediction.New(store, nil)
			if err := initEngine(def, engine.Initialized, engine.Initialize); err != nil {
				return nil, err
			}
			if rec != nil {
				engine.SetRecorder(rec)
			}
			venues[def.Name] = &polls.Venue{Kind: def.Kind, Prediction: engine}
		case polls.KindOpinion:
			engine := opinion.New(store, nil)
			if err := initEngine(def, engine.Initialized, engine.Initialize); err != nil {
				return nil, err
			}
			if rec != nil {
				engine.SetRecorder(rec)
			}
			venues[def.Name] = &polls.Venue{Kind: def.Kind, Opinion: engine}
		}
	}
	return venues, nil
}

func initEngine(def *pollDefinition, initialized func() (bool, error), initialize func(*poll.Config) error) error {
	ok, err := initialized()
	if err != nil {
		return errors.WithMessagef(err, "poll %q", def.Name)
	}
	if ok {
		return nil
	}
	cfg, err := def.toConfig()
	if err != nil {
		return errors.WithMessagef(err, "poll %q", def.Name)
	}
	if err := initialize(cfg); err != nil {
		return errors.WithMessagef(err, "poll %q", def.Name)
	}
	logger.Info("poll instantiated", "name", def.Name, "kind", def.Kind)
	return nil
}
