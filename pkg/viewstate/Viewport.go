package viewstate

import "fmt"

type AnchorKey string

func ProjectAnchor(projectKey string) AnchorKey {
	return AnchorKey("project-" + projectKey)
}

func ImageAnchor(index int) AnchorKey {
	return AnchorKey(fmt.Sprintf("image-%d", index))
}

// Anchor is a rendered element that can be scrolled to.
type Anchor interface {
	Top() float64
}

type AnchorFunc func() float64

func (f AnchorFunc) Top() float64 {
	return f()
}

type ScrollTarget struct {
	Key AnchorKey
	Top float64
}

/*
Viewport is the host view the controller drives. Scrolling is always smooth.
OnScroll subscribes to scroll position changes; the returned func detaches.
*/
type Viewport interface {
	ScrollTo(target ScrollTarget)
	ScrollIntoView(key AnchorKey)
	SetEmphasis(key AnchorKey, on bool)
	OnScroll(handler func(y float64)) (detach func())
}

type noopViewport struct{}

func (noopViewport) ScrollTo(ScrollTarget)         {}
func (noopViewport) ScrollIntoView(AnchorKey)      {}
func (noopViewport) SetEmphasis(AnchorKey, bool)   {}
func (noopViewport) OnScroll(func(float64)) func() { return func() {} }
