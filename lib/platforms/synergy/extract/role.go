package extract

import (
	"fmt"
	"lmssynergy/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var ErrUnknownRole = fmt.Errorf("unknown role")

// labels of the account switcher entries in both locales
var roleLabels = map[string]Role{
	"student":       RoleStudent,
	"студент":       RoleStudent,
	"teacher":       RoleTeacher,
	"lecturer":      RoleTeacher,
	"instructor":    RoleTeacher,
	"преподаватель": RoleTeacher,
}

func ParseRole(label string) (Role, error) {
	role, ok := roleLabels[strings.ToLower(htmlutil.Normalize(label))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, label)
	}
	return role, nil
}

type RoleOption struct {
	Name string
	Slug string
}

const (
	roleMenuSelector  = "div.drop-menu.drop-select.small ul"
	roleLabelSelector = "#switch-accounts .drop-menu-label span.title"
)

// RoleMenu reads the account switcher into (name, slug) pairs in menu order
// along with the label of the account currently shown. Names and the label
// are lowercased.
func RoleMenu(doc *goquery.Document) ([]RoleOption, string, error) {
	menu, err := mustFind(doc, "schedule", roleMenuSelector)
	if err != nil {
		return nil, "", err
	}

	var options []RoleOption
	menu.First().Find("li").Each(func(_ int, li *goquery.Selection) {
		if b := li.Find("b"); b.Length() > 0 {
			options = append(options, RoleOption{
				Name: strings.ToLower(htmlutil.Text(b)),
			})
			return
		}
		if a := li.Find("a"); a.Length() > 0 && len(options) > 0 {
			options[len(options)-1].Slug = strings.ToLower(htmlutil.Text(a))
		}
	})

	current := strings.ToLower(htmlutil.Text(doc.Find(roleLabelSelector).First()))
	return options, current, nil
}

// ResolveRole picks the menu entry matching the current label, or the first
// entry when none matches.
func ResolveRole(doc *goquery.Document) (Role, error) {
	options, current, err := RoleMenu(doc)
	if err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", &LayoutError{
			Page:     "schedule",
			Selector: roleMenuSelector + " li b",
			Reason:   "account switcher has no entries",
		}
	}

	chosen := options[0]
	for _, option := range options {
		if option.Name == current {
			chosen = option
			break
		}
	}
	return ParseRole(chosen.Slug)
}
