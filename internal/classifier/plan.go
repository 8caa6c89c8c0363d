package classifier

import (
	"github.com/amishk599/crucible/internal/model"
	"github.com/amishk599/crucible/internal/vault"
)

// ActionKind says what happens to one note.
type ActionKind int

const (
	// ActionPlace moves the note into <category-root>/<topic>/ and indexes it.
	ActionPlace ActionKind = iota
	// ActionQuarantine moves the note into the failed folder.
	ActionQuarantine
)

// Action is the planned outcome for a single inbox note.
type Action struct {
	Kind        ActionKind
	Item        model.InboxItem
	Category    model.Category // valid only for ActionPlace
	RawCategory string
	Topic       string // sanitized
	Summary     string
}

// Plan correlates provider entries with scanned notes by exact path, in the
// order the provider returned them. Entries with an unknown path, and repeats
// of a path already planned, are counted as ignored.
func Plan(items []model.InboxItem, result model.Classification) ([]Action, int) {
	byPath := make(map[string]model.InboxItem, len(items))
	for _, it := range items {
		byPath[it.Path] = it
	}

	planned := make(map[string]bool, len(items))
	actions := make([]Action, 0, len(result.Items))
	ignored := 0

	for _, entry := range result.Items {
		item, ok := byPath[entry.Path]
		if !ok || planned[entry.Path] {
			ignored++
			continue
		}
		planned[entry.Path] = true

		a := Action{
			Item:        item,
			RawCategory: entry.Category,
			Topic:       vault.SanitizeTopic(entry.Topic),
			Summary:     entry.Summary,
		}
		if cat, valid := model.ParseCategory(entry.Category); valid {
			a.Kind = ActionPlace
			a.Category = cat
		} else {
			a.Kind = ActionQuarantine
		}
		actions = append(actions, a)
	}
	return actions, ignored
}
