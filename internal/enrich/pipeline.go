// Package enrich deriva métricas, attribution score, grade y recomendaciones a
// partir de un insight crudo. Es puro: sin I/O ni estado compartido.
package enrich

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/AngelCh415/attributely-go/internal/models"
)

const EnhancedBy = "Attributely Pro"

type Outcome string

const (
	OutcomeEnriched Outcome = "enriched"
	OutcomeDegraded Outcome = "degraded"
)

// Result siempre trae un EnrichedInsight estructuralmente válido. Cuando
// Outcome es OutcomeDegraded, Err dice por qué.
type Result struct {
	Insight models.EnrichedInsight
	Outcome Outcome
	Err     error
}

func (r Result) Degraded() bool { return r.Outcome == OutcomeDegraded }

var ErrNonFinite = errors.New("non-finite derived value")

type Pipeline struct {
	log *slog.Logger
	now func() time.Time

	calculate func(Inputs) models.CalculatedMetrics
}

type Option func(*Pipeline)

func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

func New(log *slog.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	p := &Pipeline{log: log, now: time.Now, calculate: Calculate}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultPipeline = New(nil)

// Enrich usa el pipeline por defecto (slog.Default, reloj real).
func Enrich(raw models.RawInsight) Result { return defaultPipeline.Enrich(raw) }

func (p *Pipeline) Enrich(raw models.RawInsight) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = p.degrade(raw, fmt.Errorf("enrichment panic: %v", r))
		}
	}()

	in := InputsFrom(raw)
	m := p.calculate(in)
	if err := checkFinite(m); err != nil {
		return p.degrade(raw, err)
	}
	score := AttributionScore(in.CTR, m)

	return Result{
		Insight: models.EnrichedInsight{
			RawInsight:           raw,
			CalculatedMetrics:    &m,
			AttributelyScore:     score,
			PerformanceGrade:     string(GradeFor(score)),
			AIRecommendations:    Recommendations(m, score),
			EnhancedBy:           EnhancedBy,
			EnhancementTimestamp: p.now().UTC().Format(time.RFC3339),
		},
		Outcome: OutcomeEnriched,
	}
}

// EnrichAll enriquece cada registro en su propia goroutine; el orden de
// salida es el de entrada.
func (p *Pipeline) EnrichAll(raws []models.RawInsight) []Result {
	out := make([]Result, len(raws))
	var wg sync.WaitGroup
	for i := range raws {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = p.Enrich(raws[i])
		}(i)
	}
	wg.Wait()
	return out
}

func (p *Pipeline) degrade(raw models.RawInsight, cause error) Result {
	p.log.Warn("enrichment degraded",
		slog.String("campaign_id", raw.CampaignID),
		slog.String("err", cause.Error()))
	return Result{
		Insight: models.EnrichedInsight{
			RawInsight:        raw,
			AttributelyScore:  0,
			PerformanceGrade:  string(GradeNA),
			AIRecommendations: []string{},
		},
		Outcome: OutcomeDegraded,
		Err:     cause,
	}
}

func checkFinite(m models.CalculatedMetrics) error {
	for name, v := range map[string]float64{
		"cost_per_click":       m.CostPerClick,
		"conversion_rate":      m.ConversionRate,
		"cost_per_acquisition": m.CostPerAcquisition,
		"return_on_ad_spend":   m.ReturnOnAdSpend,
		"profit_margin":        m.ProfitMargin,
		"efficiency_score":     m.EfficiencyScore,
		"reach_rate":           m.ReachRate,
		"cost_per_reach":       m.CostPerReach,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, name)
		}
	}
	return nil
}
