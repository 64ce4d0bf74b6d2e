package snapshot

import (
	"fmt"
	"strings"

	"lorekeeper/internal/world"
)

// Topics rendered when none are requested, in output order.
var defaultTopics = []string{
	"player", "stats", "inventory", "equipment", "currencies", "party", "npcs",
	"quests", "factions", "relationships", "powers", "flags", "loot", "time",
}

var topicAliases = map[string]string{
	"character":  "player",
	"items":      "inventory",
	"gear":       "equipment",
	"money":      "currencies",
	"gold":       "currencies",
	"companions": "party",
	"npc":        "npcs",
	"quest":      "quests",
	"faction":    "factions",
	"relations":  "relationships",
	"power":      "powers",
	"clock":      "time",
}

// Render writes the requested topics as plain text. Topics may also name a
// section such as "locations". With no topics, everything is rendered.
func Render(snap Snapshot, topics ...string) string {
	var b strings.Builder
	if len(topics) == 0 {
		topics = append([]string(nil), defaultTopics...)
		for _, sec := range snap.Sections {
			topics = append(topics, sec.Name)
		}
	}
	seen := make(map[string]struct{}, len(topics))
	for _, raw := range topics {
		topic := strings.ToLower(strings.TrimSpace(raw))
		if alias, ok := topicAliases[topic]; ok {
			topic = alias
		}
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		if !renderTopic(&b, snap, topic) {
			fmt.Fprintf(&b, "No context for %q.\n", raw)
		}
	}
	return b.String()
}

func renderTopic(b *strings.Builder, snap Snapshot, topic string) bool {
	switch topic {
	case "player":
		renderPlayer(b, snap.Player)
	case "stats":
		header(b, "Stats", len(snap.Stats))
		for _, st := range snap.Stats {
			fmt.Fprintf(b, "  - %s: %d\n", st.ID, st.Value)
		}
	case "inventory":
		header(b, "Inventory", len(snap.Inventory))
		for _, it := range snap.Inventory {
			fmt.Fprintf(b, "  - %s x%d%s\n", it.ID, it.Quantity, suffix(it.Quality, it.Description, setLabel(it.SetID)))
		}
	case "equipment":
		header(b, "Equipment", len(snap.Equipment))
		for _, eq := range snap.Equipment {
			fmt.Fprintf(b, "  - %s: %s%s\n", eq.Slot, eq.ItemID, suffix(eq.Description, setLabel(eq.SetID)))
		}
	case "currencies":
		header(b, "Currencies", len(snap.Currencies))
		for _, c := range snap.Currencies {
			fmt.Fprintf(b, "  - %s: %d\n", c.Currency, c.Amount)
		}
	case "party":
		header(b, "Party", len(snap.Party))
		renderNpcs(b, snap.Party)
	case "npcs":
		header(b, "NPCs", len(snap.NPCs))
		renderNpcs(b, snap.NPCs)
	case "quests":
		header(b, "Quests", len(snap.Quests))
		for _, q := range snap.Quests {
			fmt.Fprintf(b, "  - %s [%s] %s%s\n", q.ID, q.Status, q.Title, suffix(q.Difficulty))
			if q.Description != "" {
				fmt.Fprintf(b, "    %s\n", q.Description)
			}
			for _, sub := range q.SubQuests {
				mark := " "
				if sub.Completed {
					mark = "x"
				}
				fmt.Fprintf(b, "    [%s] %s %s\n", mark, sub.ID, sub.Description)
			}
			if len(q.Rewards) > 0 {
				fmt.Fprintf(b, "    Rewards: %s\n", strings.Join(q.Rewards, ", "))
			}
		}
	case "factions":
		header(b, "Factions", len(snap.Factions))
		for _, f := range snap.Factions {
			fmt.Fprintf(b, "  - %s (%s) reputation %d%s\n", f.Name, f.ID, f.Reputation, suffix(f.Kind, f.Description))
		}
	case "relationships":
		header(b, "Relationships", len(snap.Relationships))
		for _, r := range snap.Relationships {
			fmt.Fprintf(b, "  - %s -> %s: %d\n", r.Subject, r.Target, r.Value)
		}
	case "powers":
		header(b, "Powers", len(snap.Powers))
		for _, p := range snap.Powers {
			fmt.Fprintf(b, "  - %s (%s)%s\n", p.Name, p.ID, suffix(p.Description))
		}
	case "flags":
		header(b, "Flags", len(snap.Flags))
		for _, f := range snap.Flags {
			fmt.Fprintf(b, "  - %s\n", f)
		}
	case "loot":
		header(b, "Loot", len(snap.Loot))
		for _, l := range snap.Loot {
			fmt.Fprintf(b, "  - %s x%d%s\n", l.Item, l.Quantity, suffix(l.Description, setLabel(l.SetID)))
		}
	case "time":
		fmt.Fprintf(b, "Elapsed time: %s\n", snap.Elapsed)
	default:
		return renderSection(b, snap, topic)
	}
	return true
}

func renderPlayer(b *strings.Builder, p *world.Player) {
	if p == nil {
		b.WriteString("Player: none\n")
		return
	}
	fmt.Fprintf(b, "Player: %s%s\n", p.Name, suffix(p.Role, p.Status))
	fmt.Fprintf(b, "  Level %d (%d/%d exp)\n", p.Level, p.Exp, p.ExpToNext)
	if p.Notes != "" {
		fmt.Fprintf(b, "  Notes: %s\n", p.Notes)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(b, "  Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	gear(b, "Weapons", p.Weapons)
	gear(b, "Armor", p.Armor)
	gear(b, "Clothing", p.Clothing)
}

func renderNpcs(b *strings.Builder, npcs []world.Npc) {
	for _, n := range npcs {
		fmt.Fprintf(b, "  - %s (%s)%s\n", n.Name, n.ID, suffix(n.Role))
		if n.Details != "" {
			fmt.Fprintf(b, "    %s\n", n.Details)
		}
		for _, note := range n.Notes {
			fmt.Fprintf(b, "    Note: %s\n", note)
		}
		gear(b, "  Weapons", n.Weapons)
		gear(b, "  Armor", n.Armor)
		gear(b, "  Clothing", n.Clothing)
	}
}

func renderSection(b *strings.Builder, snap Snapshot, name string) bool {
	for _, sec := range snap.Sections {
		if sec.Name != name {
			continue
		}
		header(b, sectionTitle(sec.Name), len(sec.Cards))
		for _, c := range sec.Cards {
			fmt.Fprintf(b, "  - %s (%s)%s\n", c.Name, c.ID, suffix(c.Role, c.Status))
			if c.Details != "" {
				fmt.Fprintf(b, "    %s\n", c.Details)
			}
			if len(c.Items) > 0 {
				fmt.Fprintf(b, "    Items: %s\n", strings.Join(c.Items, ", "))
			}
			if len(c.Tags) > 0 {
				fmt.Fprintf(b, "    Tags: %s\n", strings.Join(c.Tags, ", "))
			}
			for _, note := range c.Notes {
				fmt.Fprintf(b, "    Note: %s\n", note)
			}
		}
		return true
	}
	return false
}

func header(b *strings.Builder, title string, n int) {
	if n == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
}

func gear(b *strings.Builder, label string, items []string) {
	if len(items) > 0 {
		fmt.Fprintf(b, "  %s: %s\n", label, strings.Join(items, ", "))
	}
}

// suffix joins the non-empty parts as " (a; b)".
func suffix(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return " (" + strings.Join(kept, "; ") + ")"
}

func setLabel(id string) string {
	if id == "" {
		return ""
	}
	return "set " + id
}

func sectionTitle(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
