// SPDX-License-Identifier: MIT

package atom

import "encoding/xml"

// CategoryDoc is the fixed category scheme document served at
// /schemas/2007/categories.cat.
type CategoryDoc struct {
	XMLName   xml.Name      `xml:"app:categories"`
	XMLNSApp  string        `xml:"xmlns:app,attr"`
	XMLNSAtom string        `xml:"xmlns:atom,attr"`
	XMLNSYt   string        `xml:"xmlns:yt,attr"`
	Fixed     string        `xml:"fixed,attr"`
	Scheme    string        `xml:"scheme,attr"`
	Items     []CategoryDef `xml:"atom:category"`
}

// CategoryDef is one assignable category.
type CategoryDef struct {
	Term       string    `xml:"term,attr"`
	Label      string    `xml:"label,attr"`
	Assignable *struct{} `xml:"yt:assignable,omitempty"`
}

// CategoryScheme is the scheme URI entries reference in their category
// elements.
const CategoryScheme = "http://gdata.youtube.com/schemas/2007/categories.cat"

var assignable = &struct{}{}

// Categories returns the category scheme document the portal firmware
// fetches once at startup.
func Categories() *CategoryDoc {
	names := []CategoryDef{
		{Term: "Film", Label: "Film & Animation", Assignable: assignable},
		{Term: "Autos", Label: "Autos & Vehicles", Assignable: assignable},
		{Term: "Music", Label: "Music", Assignable: assignable},
		{Term: "Animals", Label: "Pets & Animals", Assignable: assignable},
		{Term: "Sports", Label: "Sports", Assignable: assignable},
		{Term: "Travel", Label: "Travel & Events", Assignable: assignable},
		{Term: "Games", Label: "Gaming", Assignable: assignable},
		{Term: "People", Label: "People & Blogs", Assignable: assignable},
		{Term: "Comedy", Label: "Comedy", Assignable: assignable},
		{Term: "Entertainment", Label: "Entertainment", Assignable: assignable},
		{Term: "News", Label: "News & Politics", Assignable: assignable},
		{Term: "Howto", Label: "Howto & Style", Assignable: assignable},
		{Term: "Education", Label: "Education", Assignable: assignable},
		{Term: "Tech", Label: "Science & Technology", Assignable: assignable},
		{Term: "Nonprofit", Label: "Nonprofits & Activism", Assignable: assignable},
	}
	return &CategoryDoc{
		XMLNSApp:  "http://www.w3.org/2007/app",
		XMLNSAtom: NSAtom,
		XMLNSYt:   NSYouTube,
		Fixed:     "yes",
		Scheme:    CategoryScheme,
		Items:     names,
	}
}

// CategoryTerm maps a Data API category ID to the legacy scheme's term.
// Unknown IDs fall back to Entertainment, which every firmware build knows.
func CategoryTerm(categoryID string) string {
	switch categoryID {
	case "1":
		return "Film"
	case "2":
		return "Autos"
	case "10":
		return "Music"
	case "15":
		return "Animals"
	case "17":
		return "Sports"
	case "19":
		return "Travel"
	case "20":
		return "Games"
	case "22":
		return "People"
	case "23":
		return "Comedy"
	case "24":
		return "Entertainment"
	case "25":
		return "News"
	case "26":
		return "Howto"
	case "27":
		return "Education"
	case "28":
		return "Tech"
	case "29":
		return "Nonprofit"
	default:
		return "Entertainment"
	}
}
