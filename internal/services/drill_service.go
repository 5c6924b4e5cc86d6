package services

import (
	"log/slog"
	"time"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/drillgen"
)

const (
	defaultDrillBatch = 10
	maxDrillBatch     = 100
)

// DrillService produces parametric arithmetic questions for Basic-Facts
// levels. There is no persisted bank; every batch is generated on
// demand under the tier's numeric constraints.
type DrillService interface {
	ListTiers() []drillgen.TierInfo
	GenerateQuestions(tier drillgen.Tier, count int) ([]drillgen.Question, error)
}

type drillService struct {
	logger *slog.Logger
}

func NewDrillService(logger *slog.Logger) DrillService {
	return &drillService{logger: logger}
}

func (s *drillService) ListTiers() []drillgen.TierInfo {
	return drillgen.Tiers()
}

func (s *drillService) GenerateQuestions(tier drillgen.Tier, count int) ([]drillgen.Question, error) {
	if _, ok := drillgen.Info(tier); !ok {
		return nil, ErrUnknownDrillTier
	}
	if count <= 0 {
		count = defaultDrillBatch
	}
	if count > maxDrillBatch {
		count = maxDrillBatch
	}

	generator := drillgen.NewGenerator(uint64(time.Now().UnixNano()))
	questions, err := generator.Generate(tier, count)
	if err != nil {
		return nil, err
	}
	return questions, nil
}
