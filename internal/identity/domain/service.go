package domain

import (
	"context"
	"errors"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
)

// Service resolves a loose animal identifier to exactly one animal. Accepted
// forms: a numeric id, "SERIES-REGNO", "SERIES REGNO", "SERIESREGNO" or a
// bare registration number. Read-only.
type Service interface {
	Resolve(ctx context.Context, identifier string) (*animaldomain.Animal, error)
	// Split breaks a free-text identifier into its series and registration
	// number halves using the same rules Resolve applies.
	Split(identifier string) (series string, regNo string, err error)
}

var (
	ErrNotFound            = errors.New("identity_not_found")
	ErrAmbiguousIdentity   = errors.New("ambiguous_identity")
	ErrMalformedIdentifier = errors.New("malformed_identifier")
)
