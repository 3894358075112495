package viewstate

import (
	"math/rand/v2"

	"github.com/minzhangphoto/portfolio/pkg/models"
)

// PickHero chooses the featured project. An empty set has no hero.
func PickHero(set *models.ProjectSet, r *rand.Rand) (models.Project, bool) {
	n := set.Len()

	if n == 0 {
		return models.Project{}, false
	}

	if r == nil {
		return set.At(0)
	}

	return set.At(r.IntN(n))
}
