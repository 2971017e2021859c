package service

import (
	"context"
	"strings"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/clock"
	"github.com/agropec/boletim/internal/death/domain"
	"github.com/agropec/boletim/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Animals animaldomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	animals animaldomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("death.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		animals: p.Animals,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterDeathRequest) (*domain.Death, error) {
	if req.OccurredOn.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	animal, err := s.animals.FindByID(ctx, s.db, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, animaldomain.ErrNotFound
	}
	if animal.Status == animaldomain.StatusDead {
		return nil, domain.ErrAlreadyRegistered
	}

	death := &domain.Death{
		ID:         s.genID.Generate(),
		AnimalID:   req.AnimalID,
		Cause:      strings.TrimSpace(req.Cause),
		LossValue:  req.LossValue,
		OccurredOn: req.OccurredOn.UTC(),
		CreatedAt:  s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(death).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyRegistered
			}
			return err
		}
		animal.Status = animaldomain.StatusDead
		animal.UpdatedAt = s.clock.Now()
		return s.animals.Update(ctx, tx, animal)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("death registered",
		zap.Int64("animal_id", animal.ID.Int64()),
		zap.String("occurred_on", death.OccurredOn.Format("2006-01-02")),
	)
	return death, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Death, error) {
	var death domain.Death
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&death).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &death, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Death, error) {
	var deaths []*domain.Death
	err := s.db.WithContext(ctx).
		Order("occurred_on desc, id desc").
		Find(&deaths).Error
	if err != nil {
		return nil, err
	}
	return deaths, nil
}
