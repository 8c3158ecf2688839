// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package polls

import (
	"math/big"
	"net/http"
	"sort"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pollvenue/venue/api/utils"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/poll/opinion"
	"github.com/pollvenue/venue/poll/prediction"
	"github.com/pollvenue/venue/venue"
)

// Venue kinds.
const (
	KindPrediction = "prediction"
	KindOpinion    = "opinion"
)

// Venue is one hosted poll instance of either kind. Exactly one of the
// engine fields is set, matching Kind.
type Venue struct {
	Kind       string
	Prediction *prediction.Engine
	Opinion    *opinion.Engine
}

// Polls serves the REST surface over a set of hosted polls.
type Polls struct {
	venues map[string]*Venue
}

func New(venues map[string]*Venue) *Polls {
	return &Polls{venues}
}

func (p *Polls) venue(req *http.Request) (*Venue, error) {
	name := mux.Vars(req)["name"]
	v, ok := p.venues[name]
	if !ok {
		return nil, utils.NotFound(errors.Errorf("no poll named %q", name))
	}
	return v, nil
}

func (v *Venue) status() (poll.Status, error) {
	if v.Kind == KindPrediction {
		return v.Prediction.Status()
	}
	return v.Opinion.Status()
}

func (v *Venue) config() (*poll.Config, error) {
	if v.Kind == KindPrediction {
		return v.Prediction.Config()
	}
	return v.Opinion.Config()
}

func (v *Venue) state() (*poll.State, error) {
	if v.Kind == KindPrediction {
		return v.Prediction.State()
	}
	return v.Opinion.State()
}

func (p *Polls) handleList(w http.ResponseWriter, _ *http.Request) error {
	names := make([]string, 0, len(p.venues))
	for name := range p.venues {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Summary, 0, len(names))
	for _, name := range names {
		v := p.venues[name]
		status, err := v.status()
		if err != nil {
			return err
		}
		list = append(list, Summary{Name: name, Kind: v.Kind, Status: status})
	}
	return utils.WriteJSON(w, list)
}

func (p *Polls) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	cfg, err := v.config()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

func (p *Polls) handleGetState(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	st, err := v.state()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, st)
}

func (p *Polls) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	status, err := v.status()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, StatusResponse{
		Status: status,
		Live:   status == poll.StatusBetting,
	})
}

func (p *Polls) handleGetSides(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	if v.Kind == KindPrediction {
		totals, err := v.Prediction.SideTotals()
		if err != nil {
			return err
		}
		breakdown := SideBreakdown{Totals: make([]*math.HexOrDecimal256, len(totals))}
		for i, t := range totals {
			breakdown.Totals[i] = (*math.HexOrDecimal256)(t)
		}
		return utils.WriteJSON(w, breakdown)
	}
	votes, err := v.Opinion.VotesPerSide()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, SideBreakdown{Votes: votes})
}

func (p *Polls) handleGetParticipant(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	parsed, err := venue.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	addr := *parsed

	if v.Kind == KindPrediction {
		cfg, err := v.Prediction.Config()
		if err != nil {
			return err
		}
		total, err := v.Prediction.UserTotal(addr)
		if err != nil {
			return err
		}
		reward, err := v.Prediction.UserReward(addr)
		if err != nil {
			return err
		}
		stakes := make([]*math.HexOrDecimal256, cfg.NumSides)
		for side := uint8(0); side < cfg.NumSides; side++ {
			stake, err := v.Prediction.UserBet(addr, side)
			if err != nil {
				return err
			}
			stakes[side] = (*math.HexOrDecimal256)(stake)
		}
		return utils.WriteJSON(w, Participation{
			Total:  (*math.HexOrDecimal256)(total),
			Reward: (*math.HexOrDecimal256)(reward),
			Stakes: stakes,
		})
	}

	side, voted, err := v.Opinion.UserVote(addr)
	if err != nil {
		return err
	}
	participation := Participation{Voted: &voted}
	if voted {
		participation.Side = &side
	}
	return utils.WriteJSON(w, participation)
}

func (p *Polls) handleExecute(w http.ResponseWriter, req *http.Request) error {
	v, err := p.venue(req)
	if err != nil {
		return err
	}
	var ex Execution
	if err := utils.ParseJSON(req.Body, &ex); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if ex.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller required"))
	}

	var out *poll.Output
	if v.Kind == KindPrediction {
		cmd, err := buildPredictionCommand(&ex)
		if err != nil {
			return utils.BadRequest(err)
		}
		out, err = v.Prediction.Execute(ex.Caller, cmd)
		if err != nil {
			return err
		}
	} else {
		cmd, err := buildOpinionCommand(&ex)
		if err != nil {
			return utils.BadRequest(err)
		}
		out, err = v.Opinion.Execute(ex.Caller, cmd)
		if err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, convertOutput(out))
}

func buildPredictionCommand(ex *Execution) (prediction.Command, error) {
	switch ex.Type {
	case "bet":
		return &prediction.BetCommand{Side: ex.Side, Funds: ex.funds()}, nil
	case "cancel_bet":
		return &prediction.CancelBetCommand{Side: ex.Side}, nil
	case "finish_poll":
		return &prediction.FinishPollCommand{Winner: ex.Winner, Forced: ex.Forced}, nil
	case "revert_poll":
		return &prediction.RevertPollCommand{}, nil
	case "claim":
		return &prediction.ClaimCommand{}, nil
	case "reclaim_deposit":
		return &prediction.ReclaimDepositCommand{}, nil
	case "reset_poll":
		return &prediction.ResetPollCommand{
			PollName:  ex.PollName,
			StartTime: ex.StartTime,
			EndTime:   ex.EndTime,
		}, nil
	case "transfer_owner":
		if ex.NewOwner == nil {
			return nil, errors.New("new_owner required")
		}
		return &prediction.TransferOwnerCommand{NewOwner: *ex.NewOwner}, nil
	case "set_minimum_bet":
		if ex.Amount == nil {
			return nil, errors.New("amount required")
		}
		return &prediction.SetMinimumBetCommand{Amount: (*big.Int)(ex.Amount)}, nil
	default:
		return nil, errors.Errorf("unknown prediction poll operation %q", ex.Type)
	}
}

func buildOpinionCommand(ex *Execution) (opinion.Command, error) {
	switch ex.Type {
	case "vote":
		return &opinion.VoteCommand{Side: ex.Side, Funds: ex.funds()}, nil
	case "change_side":
		return &opinion.ChangeSideCommand{Side: ex.Side}, nil
	case "finish_poll":
		return &opinion.FinishPollCommand{Forced: ex.Forced}, nil
	case "reclaim_deposit":
		return &opinion.ReclaimDepositCommand{}, nil
	case "transfer_owner":
		if ex.NewOwner == nil {
			return nil, errors.New("new_owner required")
		}
		return &opinion.TransferOwnerCommand{NewOwner: *ex.NewOwner}, nil
	default:
		return nil, errors.Errorf("unknown opinion poll operation %q", ex.Type)
	}
}

func (p *Polls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleList))
	sub.Path("/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetConfig))
	sub.Path("/{name}/state").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetState))
	sub.Path("/{name}/status").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetStatus))
	sub.Path("/{name}/sides").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetSides))
	sub.Path("/{name}/participants/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetParticipant))
	sub.Path("/{name}/executions").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleExecute))
}
