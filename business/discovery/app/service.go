package app

import (
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/avilla-f/flasharb/business/discovery/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
	"github.com/avilla-f/flasharb/internal/logger"
)

// Venue identifies one concentrated-liquidity venue by its factory contract.
type Venue struct {
	Name    string
	Factory common.Address
}

// DiscoveryService fans out over every venue and fee tier to collect the
// pools that hold a given borrow/target pair, with rates already oriented
// borrow -> target.
type DiscoveryService struct {
	reader      PoolStateReader
	venues      []Venue
	feeTiers    []uint32
	maxInFlight int
	logger      logger.LoggerInterface
}

// NewDiscoveryService creates a new DiscoveryService.
func NewDiscoveryService(reader PoolStateReader, venues []Venue, feeTiers []uint32, maxInFlight int, log logger.LoggerInterface) *DiscoveryService {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &DiscoveryService{
		reader:      reader,
		venues:      venues,
		feeTiers:    feeTiers,
		maxInFlight: maxInFlight,
		logger:      log,
	}
}

// DiscoverPools scans every venue and fee tier for pools holding the pair.
// Missing pools and per-pool read failures are logged and skipped; an empty
// result means no liquidity route exists, never an error.
func (s *DiscoveryService) DiscoverPools(ctx context.Context, borrow, target *asset.Asset) ([]domain.Pool, error) {
	if err := validatePair(borrow, target); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		pools    []domain.Pool
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	for _, venue := range s.venues {
		for _, feeTier := range s.feeTiers {
			g.Go(func() error {
				pool, err := s.probePool(gctx, venue, feeTier, borrow, target)
				if err != nil {
					s.logger.Warn(gctx, "pool probe failed",
						"venue", venue.Name,
						"fee_tier", feeTier,
						"error", err,
					)
					mu.Lock()
					failures++
					mu.Unlock()
					return nil
				}
				if pool == nil {
					return nil
				}

				mu.Lock()
				pools = append(pools, *pool)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic order for downstream ranking and display.
	sort.Slice(pools, func(i, j int) bool {
		if pools[i].Venue != pools[j].Venue {
			return pools[i].Venue < pools[j].Venue
		}
		return pools[i].FeeTier < pools[j].FeeTier
	})

	s.logger.Info(ctx, "pool discovery complete",
		"pair", borrow.Symbol()+"/"+target.Symbol(),
		"pools", len(pools),
		"probes", len(s.venues)*len(s.feeTiers),
		"failed_probes", failures,
	)

	return pools, nil
}

// probePool resolves and prices a single venue/fee-tier pool.
// Returns (nil, nil) when the pool does not exist or is unpriceable.
func (s *DiscoveryService) probePool(ctx context.Context, venue Venue, feeTier uint32, borrow, target *asset.Asset) (*domain.Pool, error) {
	addr, err := s.reader.PoolFor(ctx, venue.Factory, borrow.Address(), target.Address(), feeTier)
	if err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		s.logger.Debug(ctx, "no pool for tier", "venue", venue.Name, "fee_tier", feeTier)
		return nil, nil
	}

	state, err := s.reader.ReadState(ctx, addr)
	if err != nil {
		return nil, err
	}

	if state.SqrtPriceX96 == nil || state.SqrtPriceX96.Sign() == 0 {
		// Pool exists but was never initialized.
		s.logger.Debug(ctx, "skipping uninitialized pool", "venue", venue.Name, "pool", addr.Hex())
		return nil, nil
	}

	borrowIsToken0 := state.Token0 == borrow.Address()
	rate, err := domain.PriceFromSqrt(state.SqrtPriceX96, borrow.Decimals(), target.Decimals(), borrowIsToken0)
	if err != nil {
		return nil, err
	}

	return &domain.Pool{
		Venue:          venue.Name,
		Address:        addr,
		FeeTier:        state.FeeTier,
		Rate:           rate,
		BorrowIsToken0: borrowIsToken0,
	}, nil
}

func validatePair(borrow, target *asset.Asset) error {
	if borrow == nil || target == nil {
		return apperror.Validation(apperror.CodeInvalidInput, "borrow and target assets are required")
	}
	if borrow.ID().Equals(target.ID()) {
		return apperror.Validation(apperror.CodeInvalidInput, "borrow and target must differ")
	}
	if borrow.ChainID() != target.ChainID() {
		return apperror.Validation(apperror.CodeInvalidInput, "assets must live on the same chain")
	}
	return nil
}
