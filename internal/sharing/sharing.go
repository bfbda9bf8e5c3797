// Package sharing generates and normalizes the code that scopes a family's
// data partition in the remote sheet and the local cache.
package sharing

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var adjectives = []string{
	"Happy", "Bright", "Swift", "Brave", "Golden", "Clever", "Kind", "Magic",
	"Silent", "Noble", "Grand", "Lucky", "Sunny", "Calm", "Wild", "Cool",
	"Super", "Hyper", "Mega", "Ultra", "Prime", "Epic", "Rare", "Teal",
	"Cyan", "Pink", "Blue", "Red", "Green", "Gold", "Silver", "Bronze",
	"Iron", "Steel", "Neon", "Sonic", "Rapid", "Turbo", "Astro", "Cosmic",
	"Lunar", "Solar", "Star", "Sky", "Aqua", "Terra", "Gaia", "Mystic",
	"Royal", "Chief", "Major", "Captain", "Mighty", "Heavy", "Light", "Dark",
	"Shadow", "Storm", "Cloud", "Rain", "Snow", "Wind", "Fire", "Ice",
	"Ancient", "Modern", "Future", "Retro", "Pixel", "Digital", "Cyber",
	"Techno", "Audio", "Visual", "Smart", "Wise", "Bold", "Fresh", "Clean",
	"Sharp", "Quick", "Fast", "Slow", "Safe", "Strong", "Tough", "Hard",
	"Soft", "Smooth", "Rough", "Solid", "Liquid", "Gas", "Plasma", "Atomic",
	"Nuclear", "Quantum", "Eager", "Fierce", "Gentle", "Jolly", "Lively",
	"Proud", "Silly", "Witty", "Zesty", "Alpine", "Arctic", "Desert",
	"Urban", "Rural", "Coastal", "Polar", "Vivid", "Alert", "Keen", "Able",
	"Vast",
}

var nouns = []string{
	"Panda", "Eagle", "Falcon", "Tiger", "Otter", "Badger", "Dolphin",
	"Wolf", "Lion", "Bear", "Fox", "Shark", "Whale", "Hawk", "Owl", "Cat",
	"Dog", "Pup", "Kit", "Cub", "Star", "Moon", "Sun", "Planet", "Comet",
	"Rocket", "Ship", "Boat", "Car", "Bike", "Jet", "Plane", "Train",
	"Robot", "Drone", "Mecha", "Cyborg", "Ninja", "Pirate", "Knight",
	"Wizard", "Mage", "King", "Queen", "Prince", "Duke", "Baron", "Earl",
	"Lord", "Lady", "Titan", "Giant", "Dragon", "Hydra", "Golem", "Ghost",
	"Spirit", "Soul", "Mind", "Heart", "Atom", "Molecule", "Cell", "Tissue",
	"Organ", "System", "Body", "Brain", "Nerve", "Bone", "Blood", "Skin",
	"Hair", "Eye", "Ear", "Nose", "Mouth", "Hand", "Foot", "Leg", "Arm",
	"Finger", "Toe", "Tree", "Flower", "Grass", "Leaf", "Root", "Stem",
	"Seed", "Fruit", "Berry", "Nut", "River", "Lake", "Ocean", "Sea",
	"Pond", "Stream", "Creek", "Spring", "Well", "Rain", "Snow", "Hail",
	"Sleet", "Fog", "Mist", "Cloud", "Storm", "Wind", "Atlas", "Beacon",
	"Canvas", "Delta", "Echo", "Fable", "Glider", "Haven", "Image", "Jewel",
	"Karma", "Legend", "Matrix", "Nexus", "Orbit", "Pulse", "Quest",
	"Radar", "Signal", "Token", "Unit", "Vault", "Wave", "Xenon", "Yield",
	"Zenith",
}

var codePattern = regexp.MustCompile(`^[A-Z]+-[A-Z]+-[0-9]{4}$`)

// Generate mints a new sharing code of the form ADJECTIVE-NOUN-NUMBER,
// uppercased, with a 4-digit number in [1000,9999]. Purely cosmetic:
// collisions are not mitigated, two families picking the same code would
// silently merge.
func Generate() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	num := 1000 + rand.Intn(9000)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%d", adj, noun, num))
}

// Normalize trims and uppercases a user-entered code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// WellFormed reports whether a normalized code matches the generated shape.
// Joining only requires a non-empty code; this is a hint for the UI, since
// hand-shared codes are typed and typos are common.
func WellFormed(code string) bool {
	return codePattern.MatchString(code)
}
