package mindshare

import "math"

// Signal carries the externally supplied quality inputs for one project.
// HeatScore is on a 0-100 scale (zero when the upstream source has no
// data). Quality factors are raw multipliers around 1.0; each is clamped
// to its configured bounds before use.
type Signal struct {
	HeatScore       float64
	Originality     float64
	CreatorOrganic  float64
	AudienceOrganic float64
	SmartFollowers  float64
	HasKeywords     bool
}

// NeutralSignal returns a signal that leaves the core score unchanged
// apart from the keyword confidence penalty.
func NeutralSignal(hasKeywords bool) Signal {
	return Signal{
		HeatScore:       0,
		Originality:     1.0,
		CreatorOrganic:  1.0,
		AudienceOrganic: 1.0,
		SmartFollowers:  1.0,
		HasKeywords:     hasKeywords,
	}
}

// ScoreAttention combines aggregated metrics and external signal into a
// single non-negative attention value.
//
// The volume terms go through log1p so raw tweet-count whales do not
// dominate; attention rewards breadth of engagement, not just counts.
// Every multiplier is clamped to its own bounds before multiplication,
// so one malformed upstream signal cannot let a single project swamp
// the normalizer.
func ScoreAttention(m Metrics, sig Signal, cfg Config) float64 {
	core := cfg.PostsWeight*math.Log1p(float64(m.PostCount)) +
		cfg.CreatorsWeight*math.Log1p(float64(m.UniqueAuthors)) +
		cfg.EngagementWeight*math.Log1p(float64(m.EngagementTotal)) +
		cfg.HeatWeight*(sig.HeatScore/100)

	value := core *
		sentimentMultiplier(m.AvgSentiment, cfg) *
		clamp(sig.Originality, cfg.OriginalityFloor, cfg.OriginalityCap) *
		clamp(sig.CreatorOrganic, cfg.CreatorOrganicFloor, cfg.CreatorOrganicCap) *
		clamp(sig.AudienceOrganic, cfg.AudienceOrganicFloor, cfg.AudienceOrganicCap) *
		clamp(sig.SmartFollowers, cfg.SmartFollowersFloor, cfg.SmartFollowersCap) *
		keywordStrength(sig.HasKeywords, cfg)

	return math.Max(0, value)
}

// sentimentMultiplier maps average sentiment (0-100) into the configured
// [floor, cap] band. At or below neutral the multiplier stays at the
// floor: below-neutral sentiment is never punished further, an explicit
// choice to avoid over-penalizing controversial high-engagement content.
func sentimentMultiplier(avgSentiment float64, cfg Config) float64 {
	if avgSentiment <= 50 {
		return cfg.SentimentFloor
	}
	scaled := cfg.SentimentFloor + ((avgSentiment-50)/50)*(cfg.SentimentCap-cfg.SentimentFloor)
	return clamp(scaled, cfg.SentimentFloor, cfg.SentimentCap)
}

// keywordStrength reflects attribution confidence: projects without a
// keyword corpus to filter noise get a flat penalty.
func keywordStrength(hasKeywords bool, cfg Config) float64 {
	if hasKeywords {
		return 1.0
	}
	return cfg.KeywordMissPenalty
}
