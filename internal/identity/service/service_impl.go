package service

import (
	"context"
	"strconv"
	"strings"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/identity/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Animals  animaldomain.Repository
	Matching *config.MatchingConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	animals  animaldomain.Repository
	matching *config.MatchingConfigHolder
	chain    []matcher
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("identity.service"),
		animals:  p.Animals,
		matching: p.Matching,
		chain: []matcher{
			&exactPairMatcher{repo: p.Animals},
			&seriesScanMatcher{repo: p.Animals},
			&regNoScanMatcher{repo: p.Animals},
		},
	}
}

// Resolve walks the matcher chain in priority order. A numeric id hit is
// authoritative and short-circuits everything else; after that, the first
// strategy yielding exactly one candidate wins. A strategy yielding several
// candidates defers to the next, narrower one; if the chain ends with more
// than one candidate the result is ambiguous, never an arbitrary pick.
func (s *Service) Resolve(ctx context.Context, identifier string) (*animaldomain.Animal, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrMalformedIdentifier
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil && id > 0 {
		animal, err := s.animals.FindByID(ctx, s.db, snowflake.ParseInt64(id))
		if err != nil {
			return nil, err
		}
		if animal != nil {
			return animal, nil
		}
		// Not a known id; the digits may still be a bare registration number.
	}

	cfg := s.matching.Get()
	tok, ok := splitToken(identifier, cfg.SeriesMinLen, cfg.SeriesMaxLen)
	if !ok && !hasDigit(identifier) {
		return nil, domain.ErrMalformedIdentifier
	}

	var lastCandidates []*animaldomain.Animal
	for _, m := range s.chain {
		candidates, err := m.try(ctx, s.db, tok)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		if len(candidates) > 1 {
			s.log.Debug("identifier still ambiguous after strategy",
				zap.String("strategy", m.name()),
				zap.String("identifier", identifier),
				zap.Int("candidates", len(candidates)),
			)
			lastCandidates = candidates
		}
	}

	if len(lastCandidates) > 1 {
		return nil, domain.ErrAmbiguousIdentity
	}
	return nil, domain.ErrNotFound
}

func (s *Service) Split(identifier string) (string, string, error) {
	cfg := s.matching.Get()
	tok, ok := splitToken(identifier, cfg.SeriesMinLen, cfg.SeriesMaxLen)
	if !ok {
		return "", "", domain.ErrMalformedIdentifier
	}
	return tok.Series, tok.RegNo, nil
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
