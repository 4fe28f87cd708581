// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalogue

import "github.com/pdiddy/rulebook-engine/pkg/types"

// srdTitles is the top-level table of contents of the SRD 5.2 document in
// reading order.
var srdTitles = []string{
	"Legal Information",
	"Playing the Game",
	"The Six Abilities",
	"D20 Tests",
	"Proficiency",
	"Actions",
	"Social Interaction",
	"Exploration",
	"Combat",
	"Damage and Healing",
	"Character Creation",
	"Classes",
	"Character Backgrounds",
	"Character Species",
	"Feats",
	"Spells",
	"Fighter",
	"Monk",
	"Paladin",
	"Ranger",
	"Rogue",
	"Sorcerer",
	"Warlock",
	"Wizard",
	"Character Origins",
	"Magic Items",
	"Magic Item Categories",
	"Monsters",
	"Monsters A–Z",
	"Index of Stat Blocks",
	"Magic Items A–Z",
}

// Default returns the built-in SRD 5.2 catalogue.
func Default() []types.SectionAnchor {
	anchors := make([]types.SectionAnchor, len(srdTitles))
	for i, title := range srdTitles {
		anchors[i] = types.SectionAnchor{Title: title, Marker: "# " + title, Order: i}
	}
	return anchors
}
