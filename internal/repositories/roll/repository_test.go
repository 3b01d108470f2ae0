package roll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/models"
	"github.com/stretchr/testify/suite"
)

const (
	sealedTTL   = 14 * 24 * time.Hour
	revealedTTL = 7 * 24 * time.Hour
)

// repositorySuite holds the behaviour every backend shares. Backend suites
// embed it and set repo and advance in their SetupTest.
type repositorySuite struct {
	suite.Suite
	repo    Repository
	testNow time.Time
	advance func(d time.Duration)
}

func (s *repositorySuite) sealedRoll(id string) *models.Roll {
	return &models.Roll{
		ID:              id,
		NumDice:         2,
		NumSides:        6,
		Label:           "initiative",
		Results:         []int{3, 5},
		Salt:            "salt-that-stays-secret",
		ResultsHash:     "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0",
		ShowSum:         true,
		WithReplacement: true,
		CreatedAt:       s.testNow,
		ExpiresAt:       s.testNow.Add(sealedTTL),
	}
}

func (s *repositorySuite) revealed(roll *models.Roll, at time.Time) *models.Roll {
	out := *roll
	out.IsRevealed = true
	out.RevealedAt = &at
	out.ExpiresAt = at.Add(revealedTTL)
	return &out
}

func (s *repositorySuite) save(roll *models.Roll) {
	err := s.repo.SaveRoll(context.Background(), &SaveRollInput{Roll: roll, TTL: sealedTTL})
	s.Require().NoError(err)
}

func (s *repositorySuite) TestSaveAndGetRoll() {
	roll := s.sealedRoll("abc123defg")
	s.save(roll)

	got, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal(roll, got)
}

func (s *repositorySuite) TestGetRoll_NotFound() {
	_, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: "missing"})
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *repositorySuite) TestGetRoll_ReturnsCopy() {
	roll := s.sealedRoll("copycheck1")
	s.save(roll)

	got, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	got.Results[0] = 99
	got.IsRevealed = true

	again, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal([]int{3, 5}, again.Results)
	s.False(again.IsRevealed)
}

func (s *repositorySuite) TestGetRoll_ExpiresAfterTTL() {
	roll := s.sealedRoll("expiring01")
	s.save(roll)

	s.advance(sealedTTL - time.Minute)
	_, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)

	s.advance(2 * time.Minute)
	_, err = s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *repositorySuite) TestSaveRoll_OverwritesValueAndTTL() {
	roll := s.sealedRoll("overwrite1")
	s.save(roll)

	s.advance(10 * 24 * time.Hour)
	roll.Label = "second write"
	s.save(roll)

	// The first TTL would have elapsed by now
	s.advance(10 * 24 * time.Hour)
	got, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal("second write", got.Label)
}

func (s *repositorySuite) TestSaveRoll_IfAbsent() {
	ctx := context.Background()
	roll := s.sealedRoll("ifabsent01")
	s.Require().NoError(s.repo.SaveRoll(ctx, &SaveRollInput{Roll: roll, TTL: sealedTTL, IfAbsent: true}))

	other := s.sealedRoll("ifabsent01")
	other.Label = "intruder"
	err := s.repo.SaveRoll(ctx, &SaveRollInput{Roll: other, TTL: sealedTTL, IfAbsent: true})
	s.ErrorIs(err, ErrRollExists)

	got, err := s.repo.GetRoll(ctx, &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal(roll.Label, got.Label)

	// An expired roll no longer holds its id
	s.advance(sealedTTL)
	s.Require().NoError(s.repo.SaveRoll(ctx, &SaveRollInput{Roll: other, TTL: sealedTTL, IfAbsent: true}))

	got, err = s.repo.GetRoll(ctx, &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal("intruder", got.Label)
}

func (s *repositorySuite) TestSaveRoll_InvalidInput() {
	ctx := context.Background()

	s.Error(s.repo.SaveRoll(ctx, nil))
	s.Error(s.repo.SaveRoll(ctx, &SaveRollInput{TTL: sealedTTL}))
	s.Error(s.repo.SaveRoll(ctx, &SaveRollInput{Roll: &models.Roll{}, TTL: sealedTTL}))
	s.Error(s.repo.SaveRoll(ctx, &SaveRollInput{Roll: s.sealedRoll("zero-ttl00")}))
}

func (s *repositorySuite) TestRevealRoll() {
	roll := s.sealedRoll("reveal0001")
	s.save(roll)

	s.advance(time.Hour)
	revealed := s.revealed(roll, s.testNow.Add(time.Hour))
	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: revealed, TTL: revealedTTL})
	s.Require().NoError(err)

	got, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal(revealed, got)
	s.Equal(roll.Results, got.Results)
	s.Equal(roll.ResultsHash, got.ResultsHash)
}

func (s *repositorySuite) TestRevealRoll_ResetsTTL() {
	roll := s.sealedRoll("reveal-ttl")
	s.save(roll)

	s.advance(13 * 24 * time.Hour)
	revealed := s.revealed(roll, s.testNow.Add(13*24*time.Hour))
	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: revealed, TTL: revealedTTL})
	s.Require().NoError(err)

	// Past the sealed lifetime but inside the revealed one
	s.advance(6 * 24 * time.Hour)
	_, err = s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)

	s.advance(2 * 24 * time.Hour)
	_, err = s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *repositorySuite) TestRevealRoll_AlreadyRevealed() {
	roll := s.sealedRoll("twice00001")
	s.save(roll)

	first := s.revealed(roll, s.testNow)
	s.Require().NoError(s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: first, TTL: revealedTTL}))

	s.advance(time.Minute)
	second := s.revealed(roll, s.testNow.Add(time.Minute))
	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: second, TTL: revealedTTL})
	s.ErrorIs(err, ErrRollAlreadyRevealed)

	got, err := s.repo.GetRoll(context.Background(), &GetRollInput{RollID: roll.ID})
	s.Require().NoError(err)
	s.Equal(first.RevealedAt, got.RevealedAt)
}

func (s *repositorySuite) TestRevealRoll_NotFound() {
	roll := s.revealed(s.sealedRoll("nothere001"), s.testNow)
	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: roll, TTL: revealedTTL})
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *repositorySuite) TestRevealRoll_Expired() {
	roll := s.sealedRoll("lapsed0001")
	s.save(roll)
	s.advance(sealedTTL + time.Second)

	revealed := s.revealed(roll, s.testNow.Add(sealedTTL+time.Second))
	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: revealed, TTL: revealedTTL})
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *repositorySuite) TestRevealRoll_RequiresRevealedRecord() {
	roll := s.sealedRoll("notmarked1")
	s.save(roll)

	err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: roll, TTL: revealedTTL})
	s.Error(err)
	s.NotErrorIs(err, ErrRollAlreadyRevealed)
}

func (s *repositorySuite) TestRevealRoll_ConcurrentSingleWinner() {
	roll := s.sealedRoll("race000001")
	s.save(roll)

	const callers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			revealed := s.revealed(roll, s.testNow.Add(time.Duration(i)*time.Millisecond))
			err := s.repo.RevealRoll(context.Background(), &RevealRollInput{Roll: revealed, TTL: revealedTTL})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrRollAlreadyRevealed):
				conflict++
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(callers-1, conflict)
}
