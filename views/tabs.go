package views

import (
	"net/url"
	"sync"
)

// Tab is one of the dashboard's three panes.
type Tab string

const (
	TabSearch    Tab = "search"
	TabOpen      Tab = "open"
	TabAnalytics Tab = "analytics"
)

// TabInfo pairs a tab with its label for rendering.
type TabInfo struct {
	Tab   Tab
	Label string
}

var Tabs = []TabInfo{
	{TabSearch, "Search Orders"},
	{TabOpen, "Open Orders"},
	{TabAnalytics, "Sales Analytics"},
}

const DashboardPath = "/dashboard"

// ParseTab maps a raw query value to a tab, defaulting to search.
func ParseTab(raw string) Tab {
	switch Tab(raw) {
	case TabSearch, TabOpen, TabAnalytics:
		return Tab(raw)
	}
	return TabSearch
}

// TabFromQuery derives the active tab from a URL query string.
func TabFromQuery(q url.Values) Tab {
	return ParseTab(q.Get("tab"))
}

// TabURL is the durable address of a tab.
func TabURL(t Tab) string {
	return DashboardPath + "?tab=" + url.QueryEscape(string(ParseTab(string(t))))
}

// Dashboard holds the active tab. The URL is the source of truth: Sync is
// called with every new query string and ChangeTab returns the URL the
// browser should replace its current entry with.
type Dashboard struct {
	mu     sync.Mutex
	active Tab
}

func NewDashboard() *Dashboard {
	return &Dashboard{active: TabSearch}
}

func (d *Dashboard) Sync(q url.Values) Tab {
	t := TabFromQuery(q)
	d.mu.Lock()
	d.active = t
	d.mu.Unlock()
	return t
}

func (d *Dashboard) ChangeTab(t Tab) string {
	t = ParseTab(string(t))
	d.mu.Lock()
	d.active = t
	d.mu.Unlock()
	return TabURL(t)
}

func (d *Dashboard) Active() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
