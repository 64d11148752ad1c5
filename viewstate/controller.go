package viewstate

import (
	"sync"

	"github.com/meghashyamc/encarta/gateway"
)

const (
	SlotBasicSearch    = "basic_search"
	SlotAdvancedSearch = "advanced_search"
	SlotChat           = "chat"
)

// Controller owns every request slot of the application together with the
// viewer selection and the layout.
type Controller struct {
	BasicSearch    *Slot[gateway.SearchResult]
	AdvancedSearch *Slot[gateway.SearchResult]
	Chat           *Slot[string]
	Selection      *Selection
	Layout         *Layout

	mu       sync.Mutex
	insights map[gateway.DocumentID]*Slot[string]
	risks    map[gateway.DocumentID]*Slot[string]
	counts   map[string]int
}

func NewController() *Controller {
	return &Controller{
		BasicSearch:    NewSlot[gateway.SearchResult](SlotBasicSearch),
		AdvancedSearch: NewSlot[gateway.SearchResult](SlotAdvancedSearch),
		Chat:           NewSlot[string](SlotChat),
		Selection:      NewSelection(),
		Layout:         NewLayout(),
		insights:       make(map[gateway.DocumentID]*Slot[string]),
		risks:          make(map[gateway.DocumentID]*Slot[string]),
		counts:         make(map[string]int),
	}
}

// Insights returns the insights slot of a document, creating it on first use.
func (c *Controller) Insights(id gateway.DocumentID) *Slot[string] {
	return c.documentSlot(c.insights, "insights:", id)
}

// Risks returns the risks slot of a document, creating it on first use.
func (c *Controller) Risks(id gateway.DocumentID) *Slot[string] {
	return c.documentSlot(c.risks, "risks:", id)
}

func (c *Controller) documentSlot(slots map[gateway.DocumentID]*Slot[string], prefix string, id gateway.DocumentID) *Slot[string] {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := slots[id]
	if !ok {
		slot = NewSlot[string](prefix + id.String())
		slots[id] = slot
	}
	return slot
}

// ReleaseDocument resets the per-document slots of a document that is no longer open.
func (c *Controller) ReleaseDocument(id gateway.DocumentID) {
	c.mu.Lock()
	insights, hasInsights := c.insights[id]
	risks, hasRisks := c.risks[id]
	c.mu.Unlock()

	if hasInsights {
		insights.Reset()
	}
	if hasRisks {
		risks.Reset()
	}
}

func (c *Controller) SetCategoryCount(category string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[category] = count
}

func (c *Controller) CategoryCounts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

type DocumentViews struct {
	Insights View[string] `json:"insights"`
	Risks    View[string] `json:"risks"`
}

type Snapshot struct {
	BasicSearch    View[gateway.SearchResult]           `json:"basic_search"`
	AdvancedSearch View[gateway.SearchResult]           `json:"advanced_search"`
	Chat           View[string]                         `json:"chat"`
	Viewers        map[Viewer]gateway.Document          `json:"viewers"`
	Documents      map[gateway.DocumentID]DocumentViews `json:"documents"`
	Layout         LayoutState                          `json:"layout"`
	CategoryCounts map[string]int                       `json:"category_counts"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	documents := make(map[gateway.DocumentID]DocumentViews, len(c.insights)+len(c.risks))
	for id := range c.insights {
		documents[id] = DocumentViews{}
	}
	for id := range c.risks {
		documents[id] = DocumentViews{}
	}
	insights := make(map[gateway.DocumentID]*Slot[string], len(c.insights))
	for id, slot := range c.insights {
		insights[id] = slot
	}
	risks := make(map[gateway.DocumentID]*Slot[string], len(c.risks))
	for id, slot := range c.risks {
		risks[id] = slot
	}
	c.mu.Unlock()

	for id := range documents {
		idle := State[string]{}.View()
		views := DocumentViews{Insights: idle, Risks: idle}
		if slot, ok := insights[id]; ok {
			views.Insights = slot.State().View()
		}
		if slot, ok := risks[id]; ok {
			views.Risks = slot.State().View()
		}
		documents[id] = views
	}

	return Snapshot{
		BasicSearch:    c.BasicSearch.State().View(),
		AdvancedSearch: c.AdvancedSearch.State().View(),
		Chat:           c.Chat.State().View(),
		Viewers:        c.Selection.Snapshot(),
		Documents:      documents,
		Layout:         c.Layout.State(),
		CategoryCounts: c.CategoryCounts(),
	}
}
