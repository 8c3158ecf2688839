// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pollvenue/venue/history"
	"github.com/pollvenue/venue/lvldb"
	"github.com/pollvenue/venue/venue"
)

const testDefinitions = `
polls:
  - name: who-wins
    kind: prediction
    owner: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    generator: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    deposit_amount: "1000"
    reclaimable_threshold: "10000000"
    minimum_bet_amount: "1000"
    denom: uusd
    start_time: 100
    end_time: 200
    resolution_time: 300
    num_sides: 2
    tax_percentage: 1
  - name: best-proposal
    kind: opinion
    owner: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    generator: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    denom: uusd
    start_time: 100
    end_time: 200
    num_sides: 3
`

func writeDefinitions(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "polls.yaml")
	assert.Nil(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPollDefinitions(t *testing.T) {
	defs, err := loadPollDefinitions(writeDefinitions(t, testDefinitions))
	assert.Nil(t, err)
	assert.Len(t, defs, 2)

	cfg, err := defs[0].toConfig()
	assert.Nil(t, err)
	assert.Equal(t, "who-wins", cfg.PollName)
	assert.Equal(t, venue.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), cfg.Owner)
	assert.Equal(t, big.NewInt(10000000), cfg.ReclaimableThreshold)
	assert.Equal(t, uint8(2), cfg.NumSides)
	assert.Nil(t, cfg.Validate())
}

func TestLoadPollDefinitionsRejects(t *testing.T) {
	_, err := loadPollDefinitions(writeDefinitions(t, "polls: []"))
	assert.Error(t, err)

	_, err = loadPollDefinitions(writeDefinitions(t, `
polls:
  - name: p1
    kind: lottery
`))
	assert.Error(t, err)

	_, err = loadPollDefinitions(writeDefinitions(t, `
polls:
  - name: p1
    kind: opinion
  - name: p1
    kind: opinion
`))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("")
	assert.Nil(t, err)
	assert.Equal(t, 0, v.Sign())

	v, err = parseAmount("123456789012345678901234567890")
	assert.Nil(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, err = parseAmount("-1")
	assert.Error(t, err)

	_, err = parseAmount("1.5")
	assert.Error(t, err)
}

func TestBuildVenues(t *testing.T) {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	defer db.Close()

	rec, err := history.NewMem()
	assert.Nil(t, err)
	defer rec.Close()

	defs, err := loadPollDefinitions(writeDefinitions(t, testDefinitions))
	assert.Nil(t, err)

	venues, err := buildVenues(db, rec, defs)
	assert.Nil(t, err)
	assert.Len(t, venues, 2)

	ok, err := venues["who-wins"].Prediction.Initialized()
	assert.Nil(t, err)
	assert.True(t, ok)

	// a second build over the same db reuses the instances
	venues, err = buildVenues(db, rec, defs)
	assert.Nil(t, err)
	cfg, err := venues["best-proposal"].Opinion.Config()
	assert.Nil(t, err)
	assert.Equal(t, "best-proposal", cfg.PollName)
}
