package handlers

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/data"
	"lithuania-bess/internal/revenue"
)

// Service holds the server's configuration and a cached view of the
// fetched market data. The CSVs change only when the fetch command runs,
// so they're loaded once and shared across handlers.
type Service struct {
	cfg *config.Config

	mu     sync.Mutex
	inputs *revenue.Inputs
}

// NewService creates the shared handler state.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Inputs loads and caches the market data CSVs from the data directory.
// Missing files are tolerated; the matching estimates come out zero and
// the response still describes the markets that do have data.
func (s *Service) Inputs() (revenue.Inputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputs != nil {
		return *s.inputs, nil
	}

	in, err := LoadInputs(s.cfg.Data.Dir)
	if err != nil {
		return revenue.Inputs{}, err
	}
	s.inputs = &in
	return in, nil
}

// Invalidate drops the cached inputs so the next request reloads from
// disk.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.inputs = nil
	s.mu.Unlock()
}

// LoadInputs reads the market data CSVs from a directory. A missing file
// yields an empty series with a warning; any other read error aborts.
func LoadInputs(dir string) (revenue.Inputs, error) {
	var in revenue.Inputs
	var err error

	if in.DayAhead, err = data.ReadSeries(filepath.Join(dir, data.DayAheadFile)); err != nil {
		if !os.IsNotExist(err) {
			return in, err
		}
		log.Warn().Str("file", data.DayAheadFile).Msg("no day-ahead data, run fetch first")
	}
	if in.Imbalance, err = data.ReadImbalance(filepath.Join(dir, data.ImbalanceFile)); err != nil {
		if !os.IsNotExist(err) {
			return in, err
		}
		log.Warn().Str("file", data.ImbalanceFile).Msg("no imbalance data, run fetch first")
	}
	if in.AFRR, err = data.ReadReserve(filepath.Join(dir, data.AFRRFile)); err != nil {
		if !os.IsNotExist(err) {
			return in, err
		}
		log.Warn().Str("file", data.AFRRFile).Msg("no aFRR data, run fetch first")
	}
	if in.MFRR, err = data.ReadReserve(filepath.Join(dir, data.MFRRFile)); err != nil {
		if !os.IsNotExist(err) {
			return in, err
		}
		log.Warn().Str("file", data.MFRRFile).Msg("no mFRR data, run fetch first")
	}
	return in, nil
}
