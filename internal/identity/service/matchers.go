package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"gorm.io/gorm"
)

// token is a loose identifier split into its series and registration-number
// halves. Either half may be empty when the split failed.
type token struct {
	Raw    string
	Series string
	RegNo  string
}

// splitToken breaks a free-text identifier into (series, regno) using, in
// order: explicit hyphen, explicit whitespace, then a letter/digit boundary
// with a series prefix of minLen..maxLen letters.
func splitToken(raw string, minLen, maxLen int) (token, bool) {
	raw = strings.TrimSpace(raw)
	tok := token{Raw: raw}

	if i := strings.Index(raw, "-"); i > 0 {
		tok.Series = strings.TrimSpace(raw[:i])
		tok.RegNo = strings.TrimSpace(raw[i+1:])
		if tok.Series != "" && tok.RegNo != "" {
			return tok, true
		}
	}

	if fields := strings.Fields(raw); len(fields) == 2 {
		tok.Series = fields[0]
		tok.RegNo = fields[1]
		return tok, true
	}

	boundary := regexp.MustCompile(fmt.Sprintf(`^([A-Za-z]{%d,%d})(\d.*)$`, minLen, maxLen))
	if m := boundary.FindStringSubmatch(raw); m != nil {
		tok.Series = m[1]
		tok.RegNo = m[2]
		return tok, true
	}

	return tok, false
}

// regNoMatches tolerates the usual registration-number sloppiness: leading
// zeros, and one value being a suffix of the other.
func regNoMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if na, errA := strconv.ParseInt(a, 10, 64); errA == nil {
		if nb, errB := strconv.ParseInt(b, 10, 64); errB == nil && na == nb {
			return true
		}
	}
	return strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}

func seriesEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// matcher is one strategy in the ranked resolution chain. Each strategy is
// pure: it queries, filters and returns candidates without side effects.
type matcher interface {
	name() string
	try(ctx context.Context, db *gorm.DB, tok token) ([]*animaldomain.Animal, error)
}

// exactPairMatcher queries by the exact (series, reg_no) pair,
// case-insensitive and trimmed.
type exactPairMatcher struct {
	repo animaldomain.Repository
}

func (m *exactPairMatcher) name() string { return "exact_pair" }

func (m *exactPairMatcher) try(ctx context.Context, db *gorm.DB, tok token) ([]*animaldomain.Animal, error) {
	if tok.Series == "" || tok.RegNo == "" {
		return nil, nil
	}
	return m.repo.FindByPair(ctx, db, tok.Series, tok.RegNo)
}

// seriesScanMatcher widens the net to every animal in the series, then keeps
// candidates whose reg_no matches loosely.
type seriesScanMatcher struct {
	repo animaldomain.Repository
}

func (m *seriesScanMatcher) name() string { return "series_scan" }

func (m *seriesScanMatcher) try(ctx context.Context, db *gorm.DB, tok token) ([]*animaldomain.Animal, error) {
	if tok.Series == "" || tok.RegNo == "" {
		return nil, nil
	}
	candidates, err := m.repo.FindBySeries(ctx, db, tok.Series)
	if err != nil {
		return nil, err
	}
	var matched []*animaldomain.Animal
	for _, candidate := range candidates {
		if regNoMatches(candidate.RegNo, tok.RegNo) {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}

// regNoScanMatcher queries by registration number alone and filters by series
// equality when the token carried one. With a bare numeric token the series
// filter is empty, so shared reg_nos surface as ambiguity.
type regNoScanMatcher struct {
	repo animaldomain.Repository
}

func (m *regNoScanMatcher) name() string { return "reg_no_scan" }

func (m *regNoScanMatcher) try(ctx context.Context, db *gorm.DB, tok token) ([]*animaldomain.Animal, error) {
	regNo := tok.RegNo
	if regNo == "" {
		regNo = tok.Raw
	}
	if regNo == "" {
		return nil, nil
	}
	candidates, err := m.repo.FindByRegNo(ctx, db, regNo)
	if err != nil {
		return nil, err
	}
	if tok.Series == "" {
		return candidates, nil
	}
	var matched []*animaldomain.Animal
	for _, candidate := range candidates {
		if seriesEqual(candidate.Series, tok.Series) {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}
