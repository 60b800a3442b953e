package scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AdamHarish25/SentinelTrade/internal/analyzer"
	"github.com/AdamHarish25/SentinelTrade/internal/common"
	"github.com/AdamHarish25/SentinelTrade/internal/provider"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Scanner fans the analyzer out over a ticker universe. The worker
// count caps simultaneous outbound fetches to respect the upstream
// rate limit.
type Scanner struct {
	source       *provider.FallbackSource
	batchSize    int
	historyDays  int
	timeout      time.Duration
	logger       *common.Logger
	progressFunc ProgressCallback
}

// NewScanner creates a new scanner
func NewScanner(source *provider.FallbackSource, batchSize, historyDays int, timeout time.Duration, logger *common.Logger) *Scanner {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Scanner{
		source:      source,
		batchSize:   batchSize,
		historyDays: historyDays,
		timeout:     timeout,
		logger:      logger,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan fetches and analyzes every ticker, batchSize at a time. A
// single ticker's failure or thin history drops that ticker only; the
// batch always completes. Results are sorted by accumulation quality
// descending (symbol ascending on ties, so output order is
// deterministic regardless of fetch completion order).
func (s *Scanner) Scan(ctx context.Context, tickers []string) ([]model.WatchlistItem, error) {
	if len(tickers) == 0 {
		return []model.WatchlistItem{}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	jobChan := make(chan string, len(tickers))
	resultChan := make(chan *model.WatchlistItem, len(tickers))

	for _, ticker := range tickers {
		jobChan <- ticker
	}
	close(jobChan)

	var scannedCount int64

	var wg sync.WaitGroup
	for i := 0; i < s.batchSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				bars, source := s.source.Fetch(ctx, ticker, s.historyDays)

				item := analyzer.Analyze(ticker, bars, source)
				if item == nil {
					s.logger.Debug().Str("symbol", ticker).Int("bars", len(bars)).Msg("insufficient history, ticker skipped")
				} else {
					resultChan <- item
				}

				count := atomic.AddInt64(&scannedCount, 1)
				if s.progressFunc != nil {
					s.progressFunc(int(count), len(tickers))
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]model.WatchlistItem, 0, len(tickers))
	for item := range resultChan {
		results = append(results, *item)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AccumulationQuality != results[j].AccumulationQuality {
			return results[i].AccumulationQuality > results[j].AccumulationQuality
		}
		return results[i].Symbol < results[j].Symbol
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
