package mindshare

import "mindshare/internal/adapters/config"

// TotalBps is the fixed size of one normalization window in basis points.
const TotalBps int64 = 10000

// Config holds every tunable of the scoring pipeline. It is built once at
// startup and passed explicitly; the package keeps no mutable state.
type Config struct {
	// Attention value weights; sum to 1.0 by convention (not enforced)
	PostsWeight      float64
	CreatorsWeight   float64
	EngagementWeight float64
	HeatWeight       float64

	// Engagement counter weights. The two legacy scoring call sites
	// disagreed on the retweet multiplier; likes x1, replies x2,
	// retweets x3 is the canonical weighting, kept configurable.
	LikeWeight    int64
	ReplyWeight   int64
	RetweetWeight int64

	// Sentiment multiplier bounds. Scores at or below neutral (50) map
	// to the floor; above-neutral scores map linearly floor -> cap.
	SentimentFloor float64
	SentimentCap   float64

	// Per-factor bounds for the quality multipliers. Each factor is
	// clamped independently before multiplication so a single broken
	// upstream signal cannot swing the final value unbounded.
	OriginalityFloor     float64
	OriginalityCap       float64
	CreatorOrganicFloor  float64
	CreatorOrganicCap    float64
	AudienceOrganicFloor float64
	AudienceOrganicCap   float64
	SmartFollowersFloor  float64
	SmartFollowersCap    float64

	// Applied when a project has no relevance keywords configured,
	// reflecting lower attribution confidence.
	KeywordMissPenalty float64
}

// DefaultConfig returns the documented default tunables.
func DefaultConfig() Config {
	return Config{
		PostsWeight:      0.25,
		CreatorsWeight:   0.25,
		EngagementWeight: 0.30,
		HeatWeight:       0.20,

		LikeWeight:    1,
		ReplyWeight:   2,
		RetweetWeight: 3,

		SentimentFloor: 0.8,
		SentimentCap:   1.2,

		OriginalityFloor:     0.5,
		OriginalityCap:       1.5,
		CreatorOrganicFloor:  0.5,
		CreatorOrganicCap:    1.5,
		AudienceOrganicFloor: 0.5,
		AudienceOrganicCap:   1.5,
		SmartFollowersFloor:  0.5,
		SmartFollowersCap:    1.5,

		KeywordMissPenalty: 0.8,
	}
}

// FromScoringConfig converts the environment-driven scoring section into
// the immutable pipeline config.
func FromScoringConfig(sc config.ScoringConfig) Config {
	return Config{
		PostsWeight:      sc.PostsWeight,
		CreatorsWeight:   sc.CreatorsWeight,
		EngagementWeight: sc.EngagementWeight,
		HeatWeight:       sc.HeatWeight,

		LikeWeight:    sc.LikeWeight,
		ReplyWeight:   sc.ReplyWeight,
		RetweetWeight: sc.RetweetWeight,

		SentimentFloor: sc.SentimentFloor,
		SentimentCap:   sc.SentimentCap,

		OriginalityFloor:     sc.OriginalityFloor,
		OriginalityCap:       sc.OriginalityCap,
		CreatorOrganicFloor:  sc.CreatorOrganicFloor,
		CreatorOrganicCap:    sc.CreatorOrganicCap,
		AudienceOrganicFloor: sc.AudienceOrganicFloor,
		AudienceOrganicCap:   sc.AudienceOrganicCap,
		SmartFollowersFloor:  sc.SmartFollowersFloor,
		SmartFollowersCap:    sc.SmartFollowersCap,

		KeywordMissPenalty: sc.KeywordMissPenalty,
	}
}

func clamp(v, floor, cap float64) float64 {
	if v < floor {
		return floor
	}
	if v > cap {
		return cap
	}
	return v
}
