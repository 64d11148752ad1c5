package viewstate

import (
	"fmt"
	"sync"
)

// Page is the main panel the layout shows.
type Page string

const (
	PageChat           Page = "chat"
	PageAdvancedSearch Page = "advanced_search"
)

func ParsePage(s string) (Page, error) {
	switch Page(s) {
	case PageChat, PageAdvancedSearch:
		return Page(s), nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	default:
		return "", fmt.Errorf("unknown sidebar %q", s)
	}
}

type LayoutState struct {
	LeftSidebar  bool `json:"left_sidebar"`
	RightSidebar bool `json:"right_sidebar"`
	ActiveView   Page `json:"active_view"`
}

// Layout starts with both sidebars visible on the chat view.
type Layout struct {
	mu    sync.RWMutex
	state LayoutState
}

func NewLayout() *Layout {
	return &Layout{state: LayoutState{LeftSidebar: true, RightSidebar: true, ActiveView: PageChat}}
}

// Toggle flips a sidebar and returns its new visibility.
func (l *Layout) Toggle(side Side) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch side {
	case SideLeft:
		l.state.LeftSidebar = !l.state.LeftSidebar
		return l.state.LeftSidebar
	default:
		l.state.RightSidebar = !l.state.RightSidebar
		return l.state.RightSidebar
	}
}

func (l *Layout) NavigateTo(page Page) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.ActiveView = page
}

func (l *Layout) State() LayoutState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state
}
