package dashboard

import (
	"MarketLens/internal/cache"
	"MarketLens/internal/render"
)

// Ranking animates the curated market-cap history.
func (s *Service) Ranking() *render.Figure {
	fig, _ := cache.Load(s.cache, "ranking", s.cfg.ConstituentsTTL, func() (*render.Figure, error) {
		return render.BarRace(render.CuratedRanking, s.cfg.RaceStepsPerYear), nil
	}, s.cfg.RaceStepsPerYear)
	return fig
}
