package render

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/charmbracelet/lipgloss"
)

// CardKind selects the single-result detail view.
type CardKind int

const (
	NoCard CardKind = iota
	PersonCard
	CompanyCard
)

const notAvailable = "N/A"

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
	cardTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	cardLabel = lipgloss.NewStyle().Bold(true)
)

// CardFor reports which card, if any, replaces the table. A card is shown
// only for exactly one match on first_name or company_name.
func CardFor(field record.Field, matches int) CardKind {
	if matches != 1 {
		return NoCard
	}
	switch field {
	case record.FirstName:
		return PersonCard
	case record.CompanyName:
		return CompanyCard
	}
	return NoCard
}

// Card renders r as a boxed detail view.
func Card(r record.Record, kind CardKind) string {
	var title string
	var lines [][2]string
	switch kind {
	case PersonCard:
		title = strings.TrimSpace(r.FirstName + " " + r.LastName)
		lines = [][2]string{
			{"Company", r.CompanyName},
			{"Address", address(r)},
			{"Phone", phone(r)},
			{"Email", utils.OrDefault(r.Email, notAvailable)},
			{"Website", utils.OrDefault(r.Web, notAvailable)},
		}
	case CompanyCard:
		title = r.CompanyName
		lines = [][2]string{
			{"Contact", strings.TrimSpace(r.FirstName + " " + r.LastName)},
			{"Address", address(r)},
			{"Phone", phone(r)},
			{"Email", utils.OrDefault(r.Email, notAvailable)},
		}
	default:
		return ""
	}

	var b strings.Builder
	b.WriteString(cardTitle.Render(title))
	b.WriteString("\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "\n%s %s", cardLabel.Render(l[0]+":"), l[1])
	}
	return cardStyle.Render(b.String())
}

func phone(r record.Record) string {
	if r.Phone1 != "" {
		return r.Phone1
	}
	return utils.OrDefault(r.Phone2, notAvailable)
}

func address(r record.Record) string {
	return fmt.Sprintf("%s, %s, %s %s", r.Address, r.City, r.State, r.Zip)
}
