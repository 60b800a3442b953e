// Package analyzer scores a ticker's daily history for signs of quiet
// institutional accumulation. The scorer is a hand-tuned linear rule:
// the volume-spread "absorption" pattern (heavy volume, flat price)
// dominates, OBV and range compression confirm, and sharp adverse moves
// penalize.
package analyzer

import (
	"math"
	"strings"

	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

const (
	// MinHistoryBars is the minimum daily bars needed for a valid
	// analysis; thinner histories produce no signal, not an error.
	MinHistoryBars = 21

	// StealthThreshold is the score at which a ticker is flagged.
	StealthThreshold = 75

	spikeRatio     = 2.5
	quietMovePct   = 1.5 // max |change%| for the absorption pattern
	obvTrendRatio  = 1.5
	climaxRVOL     = 5.0
	trailingWindow = 20
)

// Analyze evaluates one ticker's history (most-recent-first) and
// returns its scan result, or nil if the history is too thin to score.
// The computation is pure: same bars, same result.
func Analyze(ticker string, bars []model.Bar, source model.DataSource) *model.WatchlistItem {
	if len(bars) < MinHistoryBars {
		return nil
	}

	latest := bars[0]
	prev := bars[1]
	if prev.Close == 0 || latest.Close == 0 {
		return nil
	}

	// Trailing volume average excludes the latest bar so a spike today
	// cannot inflate its own baseline
	avgVolume20 := meanVolume(bars[1 : trailingWindow+1])

	change := latest.Close - prev.Close
	changePercent := change / prev.Close * 100
	absChange := math.Abs(changePercent)

	// With a dead trailing window the spike and RVOL ratios are
	// undefined; treat as no spike rather than propagating Inf
	isVolumeSpike := avgVolume20 > 0 && float64(latest.Volume) > spikeRatio*avgVolume20

	flow := model.FlowNeutral
	if isVolumeSpike && latest.Close > latest.Open {
		flow = model.FlowInflow
	} else if isVolumeSpike && latest.Close < latest.Open {
		flow = model.FlowOutflow
	}

	rvol := 0.0
	if avgVolume20 > 0 {
		rvol = meanVolume(bars[0:3]) / avgVolume20
	}

	obvTrend := obvTrendOf(bars)
	compressionScore := compressionScoreOf(latest)
	isAbsorption := isVolumeSpike && absChange < quietMovePct

	// Point allocation; each contribution stays attributable for audit
	baseScore := 0
	if isAbsorption {
		baseScore = 80
	} else {
		if rvol > 1.2 && flow != model.FlowOutflow {
			baseScore += 40
		}
		if changePercent > 0 {
			baseScore += 10
		}
	}

	obvPoints := 0
	if obvTrend == model.OBVUp {
		obvPoints = 15
	}

	compressionPoints := 0
	if compressionScore > 80 {
		compressionPoints = 15
	}

	penalty := 0
	if changePercent < -2 {
		penalty += 30
	}
	if rvol > climaxRVOL {
		penalty += 10
	}

	finalScore := baseScore + obvPoints + compressionPoints - penalty
	if finalScore < 0 {
		finalScore = 0
	}
	if finalScore > 100 {
		finalScore = 100
	}

	return &model.WatchlistItem{
		Symbol:              strings.SplitN(ticker, ".", 2)[0],
		Price:               latest.Close,
		Change:              change,
		ChangePercent:       changePercent,
		Volume:              latest.Volume,
		AvgVolume20:         avgVolume20,
		Flow:                flow,
		AccumulationQuality: finalScore,
		IsStealth:           finalScore >= StealthThreshold,
		VolumeFlowAnalysis: model.VolumeFlowAnalysis{
			RVOL:                  math.Round(rvol*100) / 100,
			PriceCompressionScore: compressionScore,
			OBVTrend:              obvTrend,
			IsAbsorption:          isAbsorption,
		},
		ScoreBreakdown: model.ScoreBreakdown{
			CoreSignalPoints:  baseScore,
			OBVPoints:         obvPoints,
			CompressionPoints: compressionPoints,
			Penalty:           penalty,
		},
		DataSource: source,
	}
}

func meanVolume(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	var sum int64
	for _, b := range bars {
		sum += b.Volume
	}
	return float64(sum) / float64(len(bars))
}

// obvTrendOf infers directional bias from which of the last five days'
// volume coincided with rising vs falling closes. Flat days count for
// neither side.
func obvTrendOf(bars []model.Bar) model.OBVTrend {
	var upVolume, downVolume float64
	for i := 0; i < 4 && i+1 < len(bars); i++ {
		day, older := bars[i], bars[i+1]
		switch {
		case day.Close > older.Close:
			upVolume += float64(day.Volume)
		case day.Close < older.Close:
			downVolume += float64(day.Volume)
		}
	}

	switch {
	case upVolume > obvTrendRatio*downVolume:
		return model.OBVUp
	case downVolume > obvTrendRatio*upVolume:
		return model.OBVDown
	default:
		return model.OBVFlat
	}
}

// compressionScoreOf grades how narrow the latest bar's range is
// relative to its close: tight ranges on heavy volume read as large
// orders being absorbed.
func compressionScoreOf(latest model.Bar) int {
	dailyRange := (latest.High - latest.Low) / latest.Close
	switch {
	case dailyRange < 0.015:
		return 100
	case dailyRange < 0.03:
		return 50
	default:
		return 0
	}
}
