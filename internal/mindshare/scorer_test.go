package mindshare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAttention_ZeroInputIsZero(t *testing.T) {
	cfg := DefaultConfig()
	value := ScoreAttention(Metrics{AvgSentiment: 50}, NeutralSignal(true), cfg)
	assert.Zero(t, value)
}

func TestScoreAttention_HeatAloneScores(t *testing.T) {
	cfg := DefaultConfig()
	sig := NeutralSignal(true)
	sig.HeatScore = 100

	// no engagement at all: only the heat term contributes
	value := ScoreAttention(Metrics{AvgSentiment: 50}, sig, cfg)
	want := cfg.HeatWeight * 1.0 * cfg.SentimentFloor
	assert.InDelta(t, want, value, 1e-9)
}

func TestScoreAttention_CoreFormula(t *testing.T) {
	cfg := DefaultConfig()
	m := Metrics{PostCount: 10, UniqueAuthors: 5, EngagementTotal: 100, AvgSentiment: 50}
	sig := NeutralSignal(true)
	sig.HeatScore = 40

	core := 0.25*math.Log1p(10) + 0.25*math.Log1p(5) + 0.30*math.Log1p(100) + 0.20*0.4
	want := core * cfg.SentimentFloor
	assert.InDelta(t, want, ScoreAttention(m, sig, cfg), 1e-9)
}

func TestSentimentMultiplier_Mapping(t *testing.T) {
	cfg := DefaultConfig()

	// at or below neutral: floor, regardless of how negative
	assert.InDelta(t, 0.8, sentimentMultiplier(0, cfg), 1e-9)
	assert.InDelta(t, 0.8, sentimentMultiplier(25, cfg), 1e-9)
	assert.InDelta(t, 0.8, sentimentMultiplier(50, cfg), 1e-9)

	// linear above neutral
	assert.InDelta(t, 1.0, sentimentMultiplier(75, cfg), 1e-9)
	assert.InDelta(t, 1.2, sentimentMultiplier(100, cfg), 1e-9)

	// out-of-range input stays clamped
	assert.InDelta(t, 1.2, sentimentMultiplier(500, cfg), 1e-9)
}

func TestScoreAttention_QualityFactorsClamped(t *testing.T) {
	cfg := DefaultConfig()
	m := Metrics{PostCount: 1, AvgSentiment: 50}

	base := ScoreAttention(m, NeutralSignal(true), cfg)

	// a wildly broken upstream factor is capped, not multiplied through
	broken := NeutralSignal(true)
	broken.Originality = 1e6
	capped := ScoreAttention(m, broken, cfg)
	assert.InDelta(t, base*cfg.OriginalityCap, capped, 1e-9)

	negative := NeutralSignal(true)
	negative.SmartFollowers = -5
	floored := ScoreAttention(m, negative, cfg)
	assert.InDelta(t, base*cfg.SmartFollowersFloor, floored, 1e-9)
}

func TestScoreAttention_KeywordPenalty(t *testing.T) {
	cfg := DefaultConfig()
	m := Metrics{PostCount: 3, UniqueAuthors: 2, EngagementTotal: 20, AvgSentiment: 60}

	with := ScoreAttention(m, NeutralSignal(true), cfg)
	without := ScoreAttention(m, NeutralSignal(false), cfg)
	assert.InDelta(t, with*cfg.KeywordMissPenalty, without, 1e-9)
}

func TestScoreAttention_NonNegative(t *testing.T) {
	cfg := DefaultConfig()
	sig := Signal{
		HeatScore:       0,
		Originality:     -100,
		CreatorOrganic:  -100,
		AudienceOrganic: -100,
		SmartFollowers:  -100,
	}
	value := ScoreAttention(Metrics{PostCount: 5, AvgSentiment: 10}, sig, cfg)
	assert.GreaterOrEqual(t, value, 0.0)
}

func TestScoreAttention_LogDampening(t *testing.T) {
	cfg := DefaultConfig()
	sig := NeutralSignal(true)

	small := ScoreAttention(Metrics{PostCount: 10, AvgSentiment: 50}, sig, cfg)
	huge := ScoreAttention(Metrics{PostCount: 10000, AvgSentiment: 50}, sig, cfg)

	// a 1000x volume difference must not translate to 1000x attention
	assert.Less(t, huge/small, 10.0)
	assert.Greater(t, huge, small)
}
