// Package navigation builds the console's menu tree.
//
// The tree is built once from the table registry at application start and
// handed read-only to the web and terminal surfaces. It is the single
// source of the "selected menu" context: page titles and breadcrumbs are
// resolved from it rather than from mutable per-request state.
package navigation

import (
	"github.com/JonMunkholm/backoffice/internal/core"
)

// BackLabel marks the item that returns to the parent menu.
const BackLabel = "Back"

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one entry of a menu. An item opens a table, descends into a
// submenu, or (for Back) returns to the parent.
type MenuItem struct {
	Label       string
	TableKey    string
	Description string
	Submenu     *Menu
}

// IsBack reports whether the item returns to the parent menu.
func (i MenuItem) IsBack() bool {
	return i.Label == BackLabel
}

// Href is the web path of the item.
func (i MenuItem) Href() string {
	switch {
	case i.TableKey != "":
		return "/table/" + i.TableKey
	case i.Submenu != nil && !i.IsBack():
		return "/#" + i.Submenu.Title
	}
	return "/"
}

// Menu is a titled list of items.
type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.IsBack() {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

// Build creates the tree: a root menu with one submenu per group, each
// listing that group's tables followed by Back.
func Build(title string, groups []string, byGroup func(string) []core.TableDefinition) *Menu {
	root := &Menu{Title: title}

	for _, group := range groups {
		sub := &Menu{Title: group}
		for _, def := range byGroup(group) {
			sub.Items = append(sub.Items, MenuItem{
				Label:       def.Info.Label,
				TableKey:    def.Info.Key,
				Description: def.Info.Description,
			})
		}
		sub.Items = append(sub.Items, MenuItem{Label: BackLabel})
		root.Items = append(root.Items, MenuItem{Label: group + " ->", Submenu: sub})
	}

	linkParents(root, nil)
	return root
}

// FromRegistry builds the tree from the registered tables.
func FromRegistry(title string) *Menu {
	return Build(title, core.Groups(), core.ByGroup)
}

/* ----------------------------------------
	LOOKUP
---------------------------------------- */

// Find returns the menu holding the item for tableKey.
func (m *Menu) Find(tableKey string) (*Menu, MenuItem, bool) {
	for _, item := range m.Items {
		if item.IsBack() {
			continue
		}
		if item.TableKey == tableKey {
			return m, item, true
		}
		if item.Submenu != nil {
			if menu, found, ok := item.Submenu.Find(tableKey); ok {
				return menu, found, true
			}
		}
	}
	return nil, MenuItem{}, false
}

// Root walks up to the top of the tree.
func (m *Menu) Root() *Menu {
	for m.Parent != nil {
		m = m.Parent
	}
	return m
}

// Groups returns the submenus of m.
func (m *Menu) Groups() []*Menu {
	var out []*Menu
	for _, item := range m.Items {
		if item.Submenu != nil && !item.IsBack() {
			out = append(out, item.Submenu)
		}
	}
	return out
}

// Breadcrumb returns the menu titles from the root down to the table's
// label, e.g. ["Back Office", "Reference", "Banks"].
func (m *Menu) Breadcrumb(tableKey string) []string {
	menu, item, ok := m.Find(tableKey)
	if !ok {
		return []string{m.Root().Title}
	}
	var path []string
	for cur := menu; cur != nil; cur = cur.Parent {
		path = append([]string{cur.Title}, path...)
	}
	return append(path, item.Label)
}

// PageTitle is the page title for tableKey: "Banks · Reference". Unknown keys
// yield the root title.
func (m *Menu) PageTitle(tableKey string) string {
	menu, item, ok := m.Find(tableKey)
	if !ok {
		return m.Root().Title
	}
	if menu.Parent == nil {
		return item.Label
	}
	return item.Label + " · " + menu.Title
}
