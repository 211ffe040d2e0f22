package web

// Navbar variants
const (
	navUser  = "user"
	navAdmin = "admin"
)

// NavLink is one entry of a navbar
type NavLink struct {
	Label string
	Href  string
}

// Navbar is the data behind the navbar partial
type Navbar struct {
	Variant string
	Brand   string
	Links   []NavLink
	Active  string // Href of the current page
}

var userLinks = []NavLink{
	{Label: "Home", Href: "/#Home"},
	{Label: "About", Href: "/#about"},
	{Label: "Menu", Href: "/menu"},
	{Label: "My Reservations", Href: "/my-reservations"},
}

var adminLinks = []NavLink{
	{Label: "Menu", Href: "/admin/menu"},
	{Label: "Add Item", Href: "/admin/menu/new"},
	{Label: "Reservations", Href: "/admin/reservations"},
	{Label: "Home", Href: "/"},
}

func navbar(variant, active string) Navbar {
	if variant == navAdmin {
		return Navbar{Variant: navAdmin, Brand: "Banerjee's Restaurant Admin", Links: adminLinks, Active: active}
	}
	return Navbar{Variant: navUser, Brand: "BANERJEE ROYALS", Links: userLinks, Active: active}
}

// bottomLinks are the anchors of the mobile bottom navigation
var bottomLinks = []NavLink{
	{Label: "Home", Href: "/#Home"},
	{Label: "Menu", Href: "/#menu"},
	{Label: "Book", Href: "/#reservation"},
}
