package viewstate

/*
ScrollLock is the host-view-wide "page cannot scroll" flag. While a project
detail overlay is open the page behind it must not scroll.
*/
type ScrollLock interface {
	Lock()
	Unlock()
}

type noopScrollLock struct{}

func (noopScrollLock) Lock()   {}
func (noopScrollLock) Unlock() {}

/*
scrollLockGuard holds the lock at most once. reconcile is called after every
transition with whether a project is selected, so repeated opens or closes
never stack or double-release.
*/
type scrollLockGuard struct {
	lock ScrollLock
	held bool
}

func (g *scrollLockGuard) reconcile(want bool) {
	switch {
	case want && !g.held:
		g.lock.Lock()
		g.held = true

	case !want && g.held:
		g.lock.Unlock()
		g.held = false
	}
}
