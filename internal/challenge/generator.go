package challenge

import (
	"fmt"
	"strings"
	"time"
)

type Generated struct {
	Title string `json:"title"`
	Task  string `json:"task"`
	Type  Type   `json:"type"`
}

type prompt struct {
	Title string
	Task  string
}

// Keyed by "MM-DD". A match always wins over the seeded pools.
var specialOccasions = map[string]prompt{
	"01-01": {
		Title: "New Year Fireworks Dreamscape",
		Task:  "Paint the first sunrise of the year exploding into fireworks shaped like your hopes for the months ahead.",
	},
	"02-14": {
		Title: "Valentine's Clockwork Hearts",
		Task:  "Design a pair of mechanical hearts made of brass gears and roses, ticking in perfect sync.",
	},
	"03-17": {
		Title: "Emerald Isle Folklore",
		Task:  "Illustrate a hidden village of clover-hatted folk guarding a rainbow that ends in a misty glen.",
	},
	"04-22": {
		Title: "Earth Day Living Planet",
		Task:  "Show the planet as a single living creature, with forests for fur and rivers for veins.",
	},
	"07-04": {
		Title: "Starlit Independence Parade",
		Task:  "Capture a small-town summer parade at dusk, lit only by sparklers and lanterns.",
	},
	"10-31": {
		Title: "Haunted Pumpkin Carnival",
		Task:  "Create a moonlit carnival where every ride, stall and lantern is carved from a glowing pumpkin.",
	},
	"12-24": {
		Title: "Silent Night Rooftops",
		Task:  "Paint a snowy city skyline on Christmas Eve where a single sleigh trail cuts across the stars.",
	},
	"12-25": {
		Title: "Christmas Magic Workshop",
		Task:  "Step inside a bustling workshop where elves, toys and twinkling lights come alive on Christmas morning.",
	},
	"12-31": {
		Title: "Midnight Countdown Cityscape",
		Task:  "Depict the final seconds of the year reflected in a thousand windows across a glittering city.",
	},
}

var curatedPool = []prompt{
	{
		Title: "Underwater Library",
		Task:  "Imagine a grand library beneath the sea where fish browse the shelves and books drift like jellyfish.",
	},
	{
		Title: "Steampunk Sky Harbor",
		Task:  "Design a floating port where brass airships dock among the clouds.",
	},
	{
		Title: "Forest Spirit Tea Party",
		Task:  "Paint woodland spirits hosting a tea party inside a hollow ancient tree.",
	},
	{
		Title: "Neon Noodle Bar",
		Task:  "Capture a rainy cyberpunk alley where a tiny noodle stand glows in neon.",
	},
	{
		Title: "Desert Glass Garden",
		Task:  "Create a garden of glass flowers blooming across endless golden dunes.",
	},
	{
		Title: "Clockwork Menagerie",
		Task:  "Illustrate a zoo where every animal is built from gears, springs and polished copper.",
	},
	{
		Title: "Cloud Whale Migration",
		Task:  "Show a pod of whales swimming through a sunset sky above a sleepy village.",
	},
	{
		Title: "Miniature Moon Base",
		Task:  "Build a cozy lunar outpost the size of a teacup, seen through a magnifying glass.",
	},
	{
		Title: "Origami Kingdom",
		Task:  "Render a whole kingdom folded from paper, with castles, dragons and rivers of ribbon.",
	},
	{
		Title: "Bioluminescent Night Market",
		Task:  "Depict a bustling market lit only by glowing mushrooms, fireflies and luminous fruit.",
	},
}

// Word lists for dynamic challenges, indexed by list offset 0..4.
var (
	themes = []string{
		"Forgotten", "Celestial", "Enchanted", "Neon", "Ancient", "Frozen",
		"Whimsical", "Mechanical", "Sunken", "Dreaming", "Stormy", "Golden",
	}
	subjects = []string{
		"Lighthouse", "Fox", "Carousel", "Observatory", "Dragon", "Greenhouse",
		"Train Station", "Owl", "Treehouse", "Robot", "Bakery", "Koi Pond",
	}
	styles = []string{
		"watercolor", "oil painting", "pixel art", "art nouveau", "ukiyo-e",
		"low-poly 3D", "charcoal sketch", "stained glass", "paper cut-out", "surrealist",
	}
	actions = []string{
		"waking at dawn", "hiding from a storm", "floating above the clouds", "glowing at midnight",
		"caught mid-transformation", "reflected in still water", "overgrown with flowers",
		"seen from far below", "buzzing with tiny visitors", "lost in a snow globe",
	}
	elements = []string{
		"drifting lanterns", "swirling auroras", "falling cherry blossoms", "ancient runes",
		"scattered stardust", "tangled vines", "rolling fog", "shimmering bubbles",
		"paper cranes", "crackling lightning",
	}
)

var wordLists = [][]string{themes, subjects, styles, actions, elements}

// Generate picks the challenge for a calendar date. It is pure: the same
// date always yields the same result.
func Generate(date time.Time) Generated {
	if g, ok := SpecialOccasion(date.Format("01-02")); ok {
		return g
	}

	seed := Seed(date)
	if seed%10 < 3 {
		p := curatedPool[seed%len(curatedPool)]
		return Generated{Title: p.Title, Task: p.Task, Type: TypeCurated}
	}

	return composeDynamic(seed)
}

// Seed sums the year, month and day of date.
func Seed(date time.Time) int {
	return date.Year() + int(date.Month()) + date.Day()
}

func pick(seed, listOffset int) string {
	list := wordLists[listOffset]
	return list[(seed+listOffset*7)%len(list)]
}

func composeDynamic(seed int) Generated {
	theme := pick(seed, 0)
	subject := pick(seed, 1)
	style := pick(seed, 2)
	action := pick(seed, 3)
	element := pick(seed, 4)

	return Generated{
		Title: fmt.Sprintf("%s %s", theme, subject),
		Task: fmt.Sprintf(
			"Create a %s piece featuring a %s %s %s, surrounded by %s.",
			style, strings.ToLower(theme), strings.ToLower(subject), action, element,
		),
		Type: TypeDynamic,
	}
}

// SpecialOccasion reports the fixed challenge for a "MM-DD" key, if any.
func SpecialOccasion(monthDay string) (Generated, bool) {
	p, ok := specialOccasions[monthDay]
	if !ok {
		return Generated{}, false
	}
	return Generated{Title: p.Title, Task: p.Task, Type: TypeSpecial}, true
}
