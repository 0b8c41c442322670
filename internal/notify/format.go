package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

const (
	// DefaultPageURL is linked from change notifications.
	DefaultPageURL = "https://amfb.ro/competitii/campionat-minifotbal/"
	// DefaultSiteURL is where subscribers manage their subscription.
	DefaultSiteURL = "https://amfb.adrianconstantin.ro"

	displayLayout = "02.01.2006, 15:04"
)

// FormatKickoff renders a fixture's date for humans, in the fixture's own
// offset.
func FormatKickoff(f fixture.Fixture) string {
	at := fixture.ParseISO(f.DateISO)
	if at.IsZero() {
		return "dată necunoscută"
	}
	return at.Format(displayLayout)
}

// FormatFixtureLine renders one fixture as a bullet line.
func FormatFixtureLine(team string, f fixture.Fixture) string {
	line := fmt.Sprintf("• %s vs %s - %s", team, f.Opponent, FormatKickoff(f))
	if f.Location != "" {
		line += fmt.Sprintf(" (%s)", f.Location)
	}
	return line
}

// ChangeSubject is the subject of a change notification.
func ChangeSubject(team string) string {
	return fmt.Sprintf("[AMFB] Program actualizat pentru %s", team)
}

// ChangeBody is the plain-text body of a change notification.
func ChangeBody(team string, fixtures []fixture.Fixture, pageURL string) string {
	var b strings.Builder
	b.WriteString("S-au detectat schimbări:\n")
	for _, f := range fixtures {
		b.WriteString(FormatFixtureLine(team, f))
		b.WriteString("\n")
	}
	if pageURL != "" {
		fmt.Fprintf(&b, "\nLink: %s", pageURL)
	}
	return b.String()
}

// Confirmation email subjects.
const (
	SubscribeSubject   = "[AMFB] Confirmare abonare - Notificări program"
	UnsubscribeSubject = "[AMFB] Confirmare dezabonare - Notificări program"
)

// SubscribeBody confirms a new or updated subscription.
func SubscribeBody(teams []string, siteURL string) string {
	return fmt.Sprintf(`Salut!

Abonarea ta la notificările AMFB a fost înregistrată cu succes!

Echipele pentru care vei primi notificări: %s

Vei fi notificat când se schimbă programul pentru aceste echipe.

Pentru a te dezabona, accesează: %s

Mulțumim!
Echipa AMFB Notifier`, strings.Join(teams, ", "), siteURL)
}

// UnsubscribeBody confirms a removal.
func UnsubscribeBody(siteURL string) string {
	return fmt.Sprintf(`Salut!

Dezabonarea ta de la notificările AMFB a fost efectuată cu succes.

Nu vei mai primi notificări despre schimbările programului de minifotbal.

Dacă te-ai dezabonat din greșeală, poți să te abonezi din nou accesând:
%s

Mulțumim că ai folosit serviciul nostru!
Echipa AMFB Notifier`, siteURL)
}

// StatusSubject is the subject of the operator report.
func StatusSubject(s Status) string {
	if !s.SourceAvailable {
		return "[AMFB] Status verificare - sursa indisponibilă"
	}
	if total := s.TotalChanges(); total > 0 {
		return fmt.Sprintf("[AMFB] Status verificare - %d schimbări", total)
	}
	return "[AMFB] Status verificare - fără schimbări"
}

// StatusBody is the plain-text operator report.
func StatusBody(s Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verificare program la %s\n\n", s.At.Format("02.01.2006 15:04:05 MST"))
	fmt.Fprintf(&b, "Abonați: %d\n", s.Subscribers)

	if len(s.Teams) == 0 {
		b.WriteString("Nicio echipă urmărită.\n")
		return b.String()
	}
	if !s.SourceAvailable {
		b.WriteString("Pagina cu programul nu a putut fi descărcată; starea anterioară a fost păstrată.\n")
	}

	fmt.Fprintf(&b, "Echipe verificate (%d):\n", len(s.Teams))
	teams := append([]string(nil), s.Teams...)
	sort.Strings(teams)
	for _, t := range teams {
		fmt.Fprintf(&b, "• %s: %d schimbări\n", t, s.ChangesByTeam[t])
	}
	if s.Sent > 0 || s.Failed > 0 {
		fmt.Fprintf(&b, "\nNotificări trimise: %d, eșuate: %d\n", s.Sent, s.Failed)
	}
	return b.String()
}
