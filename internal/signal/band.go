package signal

// Band is a coarse classification of the index score.
type Band string

const (
	BandExtremeFear  Band = "extreme_fear"
	BandFear         Band = "fear"
	BandNeutral      Band = "neutral"
	BandGreed        Band = "greed"
	BandExtremeGreed Band = "extreme_greed"
)

// bands maps the lowest score of each band to its label, highest first.
var bands = []struct {
	MinScore float64
	Band     Band
}{
	{76, BandExtremeGreed},
	{56, BandGreed},
	{45, BandNeutral},
	{25, BandFear},
	{0, BandExtremeFear},
}

// FromScore maps a 0-100 index score to its band. Out-of-range scores are
// clamped so the function is total.
func FromScore(score float64) Band {
	if score < 0 {
		return BandExtremeFear
	}
	for _, b := range bands {
		if score >= b.MinScore {
			return b.Band
		}
	}
	return BandExtremeFear
}
