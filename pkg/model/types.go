package model

import "time"

// Bar represents a single day's OHLCV data. Volume is stored in lots
// (100 shares per lot), the unit IDX tickers are displayed in.
// JSON tags follow the EODHD end-of-day response shape.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Flow classifies the direction of unusual volume on the latest bar.
type Flow string

const (
	FlowInflow  Flow = "Inflow"
	FlowOutflow Flow = "Outflow"
	FlowNeutral Flow = "Neutral"
)

// OBVTrend is the directional bias of on-balance volume over recent days.
type OBVTrend string

const (
	OBVUp   OBVTrend = "Up"
	OBVDown OBVTrend = "Down"
	OBVFlat OBVTrend = "Flat"
)

// DataSource records whether a ticker's history came from the live
// provider or the synthetic fallback, so consumers can disclose quality.
type DataSource string

const (
	SourceLive DataSource = "Live"
	SourceMock DataSource = "Mock"
)

// VolumeFlowAnalysis holds the secondary signals behind the score.
type VolumeFlowAnalysis struct {
	RVOL                  float64  `json:"rvol"`
	PriceCompressionScore int      `json:"priceCompressionScore"`
	OBVTrend              OBVTrend `json:"obvTrend"`
	IsAbsorption          bool     `json:"isAbsorption"`
}

// ScoreBreakdown attributes each point contribution independently for audit.
type ScoreBreakdown struct {
	CoreSignalPoints  int `json:"coreSignalPoints"`
	OBVPoints         int `json:"obvPoints"`
	CompressionPoints int `json:"compressionPoints"`
	Penalty           int `json:"penalty"`
}

// FundamentalContext is catalog metadata merged onto a scan result.
type FundamentalContext struct {
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	SubSector    string  `json:"subSector"`
	MarketCapT   float64 `json:"marketCapT"` // trillions of IDR
	Conglomerate string  `json:"conglomerate,omitempty"`
}

// WatchlistItem is the per-ticker output of the analyzer. Created once
// per scan cycle and never mutated, only replaced.
type WatchlistItem struct {
	Symbol              string              `json:"symbol"` // exchange suffix stripped
	Price               float64             `json:"price"`
	Change              float64             `json:"change"`
	ChangePercent       float64             `json:"changePercent"`
	Volume              int64               `json:"volume"`
	AvgVolume20         float64             `json:"avgVolume20"`
	Flow                Flow                `json:"flow"`
	AccumulationQuality int                 `json:"accumulationQuality"` // 0-100
	IsStealth           bool                `json:"isStealth"`
	VolumeFlowAnalysis  VolumeFlowAnalysis  `json:"volumeFlowAnalysis"`
	ScoreBreakdown      ScoreBreakdown      `json:"scoreBreakdown"`
	DataSource          DataSource          `json:"dataSource"`
	Fundamental         *FundamentalContext `json:"fundamental,omitempty"`
}

// FlowTally counts flow classifications across a scan cycle.
type FlowTally struct {
	Accumulation int `json:"accumulation"`
	Distribution int `json:"distribution"`
	Neutral      int `json:"neutral"`
}

// AuditTrail reports how the scanned universe was narrowed.
type AuditTrail struct {
	UniverseSize  int `json:"universeSize"`
	QualityPassed int `json:"qualityPassed"`
	StealthFound  int `json:"stealthFound"`
}

// MarketSnapshot aggregates all scan results for one cycle. The engine
// holds no state between snapshots; staleness handling belongs to the caller.
type MarketSnapshot struct {
	ScanID          string          `json:"scanId"`
	Watchlist       []WatchlistItem `json:"watchlist"`
	MarketSentiment int             `json:"marketSentiment"` // 0-100
	FlowTally       FlowTally       `json:"flowTally"`
	AuditTrail      AuditTrail      `json:"auditTrail"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	IsExchangeOpen  bool            `json:"isExchangeOpen"`
}

// CompanyProfile is the joined per-company fundamental view.
type CompanyProfile struct {
	Symbol       string  `json:"symbol"` // .JK-suffixed
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	SubSector    string  `json:"subSector"`
	MarketCap    float64 `json:"marketCap"` // raw IDR
	DER          float64 `json:"der"`
	ROE          float64 `json:"roe"` // percent
	PER          float64 `json:"per"`
	Conglomerate string  `json:"conglomerate,omitempty"`
}

// MarketCapT returns the market cap in trillions of IDR.
func (c CompanyProfile) MarketCapT() float64 {
	return c.MarketCap / 1e12
}
