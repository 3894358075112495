package viewstate

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerImages(m *Machine, count int) {
	for index := range count {
		m.Anchors().Register(ImageAnchor(index), AnchorFunc(func() float64 { return float64(index) * 500 }))
	}
}

func TestScrollToProject_UsesHeaderClearanceAndClosesNav(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	f.machine.Anchors().Register(ProjectAnchor("lisbon"), AnchorFunc(func() float64 { return 1250 }))

	f.machine.ToggleNavMenu()
	f.machine.ScrollToProject("lisbon")

	assert.Equal(t, []string{"scrollTo project-lisbon 1150"}, f.viewport.Calls())
	assert.False(t, f.machine.Snapshot().ShowNavMenu)
}

func TestScrollToProject_UnregisteredIsNoop(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())

	f.machine.ToggleNavMenu()
	f.machine.ScrollToProject("lisbon")

	assert.Empty(t, f.viewport.Calls())
	assert.True(t, f.machine.Snapshot().ShowNavMenu)
}

func TestScrollToProject_AfterUnregister(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	anchors := f.machine.Anchors()

	anchors.Register(ProjectAnchor("paris"), AnchorFunc(func() float64 { return 0 }))
	assert.True(t, anchors.Registered(ProjectAnchor("paris")))

	anchors.Unregister(ProjectAnchor("paris"))
	assert.False(t, anchors.ScrollToProject("paris"))
	assert.Empty(t, f.viewport.Calls())
}

func TestScrollToImage_RequiresOpenDetailAndValidIndex(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	assert.False(t, f.machine.Anchors().ScrollToImage(0))

	f.machine.OpenDetail(project(t, f.machine, "paris"))

	assert.False(t, f.machine.Anchors().ScrollToImage(-1))
	assert.False(t, f.machine.Anchors().ScrollToImage(4))
	assert.Equal(t, 0, f.scheduler.Pending())

	assert.True(t, f.machine.Anchors().ScrollToImage(3))
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestScrollToImage_ClosesContactSheetFirst(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.OpenContactSheet()
	f.machine.ScrollToImage(1)

	assert.False(t, f.machine.Snapshot().ShowContactSheet)
}

func TestScrollToImage_MissingAnchorIsNoopAfterDelay(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.SelectImageInContactSheet(2)

	f.scheduler.Advance(time.Second * 5)

	assert.Empty(t, f.viewport.Calls())
	assert.Equal(t, 0, f.scheduler.Pending())
}

func TestScrollToImage_DetailClosedDuringSettle(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.ScrollToImage(2)
	f.machine.CloseDetail()

	f.scheduler.Advance(time.Second)

	assert.Empty(t, f.viewport.Calls())
}

func TestScrollToImage_DetailSwitchedProjectDuringSettle(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.ScrollToImage(1)
	f.machine.OpenDetailByID("blank")

	f.scheduler.Advance(time.Second)

	assert.Empty(t, f.viewport.Calls())
	assert.Equal(t, "blank", f.machine.Snapshot().SelectedProject.Key())
}

func TestScrollToImage_NewerRequestSupersedesPending(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.ScrollToImage(1)
	f.scheduler.Advance(100 * time.Millisecond)
	f.machine.ScrollToImage(3)

	f.scheduler.Advance(DefaultSettleDelay)

	assert.Equal(t, []string{"intoView image-3", "emphasis image-3 on"}, f.viewport.Calls())
}

func TestScrollToImage_CloseDropsEmphasis(t *testing.T) {
	f := newBrowsingFixture(t, AllFeatures())
	registerImages(f.machine, 4)

	f.machine.OpenDetail(project(t, f.machine, "paris"))
	f.machine.ScrollToImage(0)
	f.scheduler.Advance(DefaultSettleDelay)

	f.machine.Close()
	f.scheduler.Advance(DefaultEmphasisDuration)

	assert.Equal(t, []string{"intoView image-0", "emphasis image-0 on", "emphasis image-0 off"}, f.viewport.Calls())
	assert.Equal(t, 0, f.scheduler.Pending())
}

func TestScrollToImage_CustomTimings(t *testing.T) {
	viewport := &fakeViewport{}
	scheduler := &fakeScheduler{}

	m := NewMachine(MachineConfig{
		EmphasisDuration: 50 * time.Millisecond,
		Rand:             rand.New(rand.NewPCG(1, 1)),
		Scheduler:        scheduler,
		SettleDelay:      10 * time.Millisecond,
		Viewport:         viewport,
	})

	defer m.Close()

	require.NoError(t, m.Load(t.Context(), &staticLoader{payload: galleryPayload}))
	registerImages(m, 4)

	m.OpenDetailByID("paris")
	m.ScrollToImage(1)

	scheduler.Advance(10 * time.Millisecond)
	assert.Len(t, viewport.Calls(), 2)

	scheduler.Advance(50 * time.Millisecond)
	assert.Len(t, viewport.Calls(), 3)
}

func TestPickHero(t *testing.T) {
	_, ok := PickHero(models.NewProjectSet(nil), rand.New(rand.NewPCG(1, 1)))
	assert.False(t, ok)

	set := models.NewProjectSet([]models.Project{{ID: "a", DisplayID: 1}, {ID: "b", DisplayID: 2}, {ID: "c", DisplayID: 3}})

	first, ok := PickHero(set, nil)
	require.True(t, ok)
	assert.Equal(t, "a", first.ID)

	for seed := range uint64(20) {
		hero, ok := PickHero(set, rand.New(rand.NewPCG(seed, seed)))
		require.True(t, ok)
		assert.Contains(t, []string{"a", "b", "c"}, hero.ID)
	}
}
