package handlers

import (
	"math/rand"
	"net/http"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/profile"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/floats"
)

const monthDays = 30

// GenerateProfile handles POST /api/v1/profile
func GenerateProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	arch := profile.Archetype(req.Archetype)
	if arch == "" {
		arch = profile.ArchetypeWorkday
	}
	g := &profile.Generator{}
	if req.Seed != 0 {
		g.Rand = rand.New(rand.NewSource(req.Seed))
	}
	p, err := g.Generate(profile.Params{
		AnnualLoadKWh: req.AnnualLoadKWh,
		PVCapacityKW:  req.PVCapacityKW,
		YieldHours:    req.YieldHours,
		Archetype:     arch,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	su, err := profile.AnalyzeSelfUse(p.Generation, p.Load)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProfileResponse{
		Hours:                len(p.Load),
		GenerationKWh:        round4(su.GenerationKWh),
		LoadKWh:              round4(floats.Sum(p.Load)),
		SelfUsedKWh:          round4(su.SelfUsedKWh),
		FeedInKWh:            round4(su.FeedInKWh),
		SelfUseRatio:         round4(su.Ratio),
		MonthlyGenerationKWh: monthly(p.Generation),
		MonthlyLoadKWh:       monthly(p.Load),
	})
}

// monthly sums an 8760 series into twelve 30-day buckets, the last one
// absorbing the remainder.
func monthly(series []float64) []float64 {
	out := make([]float64, 12)
	for h, v := range series {
		m := min(h/(monthDays*24), 11)
		out[m] += v
	}
	for i := range out {
		out[i] = round4(out[i])
	}
	return out
}
