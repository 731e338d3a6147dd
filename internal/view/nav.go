// Package view manages the named views of the app and the mounted
// instances of its stateful views (activity log and assistant).
package view

import "strings"

// Name identifies a view.
type Name string

const (
	Home            Name = "home"
	Dashboard       Name = "dashboard"
	Assistant       Name = "assistant"
	ActivityLogView Name = "activity-log"
	Advisory        Name = "advisory"
	NotFound        Name = "not-found"
)

// View is a named view with a static path.
type View struct {
	Name  Name   `json:"name"`
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Views lists the navigable views in menu order.
var Views = []View{
	{Name: Home, Path: "/", Label: "Home"},
	{Name: Dashboard, Path: "/dashboard", Label: "Dashboard"},
	{Name: Assistant, Path: "/chatbot", Label: "AI Assistant"},
	{Name: ActivityLogView, Path: "/activity", Label: "Activity Log"},
	{Name: Advisory, Path: "/advisory", Label: "Advisory"},
}

// Resolve maps a request path to its view. A trailing slash is ignored.
// Paths with no view resolve to the not-found view carrying the path.
func Resolve(path string) View {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	for _, v := range Views {
		if v.Path == path {
			return v
		}
	}
	return View{Name: NotFound, Path: path, Label: "Page Not Found"}
}

// ByName returns the view named n.
func ByName(n Name) (View, bool) {
	for _, v := range Views {
		if v.Name == n {
			return v, true
		}
	}
	return View{}, false
}
