// Package presentation turns a guilt percentage into the meter's color and message.
package presentation

import (
	"golang.org/x/exp/rand"
)

const (
	SoftSilver   = "#D9DDE3"
	PastelMint   = "#B5EAD7"
	ButterYellow = "#FFF1A8"
	Apricot      = "#FFC89E"
	Coral        = "#FF8C7A"
	Crimson      = "#E2425C"
)

type messageRange struct {
	min, max int
	messages []string
}

// Ranges share their edges; the first range in declaration order wins.
var messageRanges = []messageRange{
	{0, 10, []string{
		"You're basically done. Go claim that reward!",
		"Guilt level: barely a whisper. Nicely done.",
		"Almost nothing left. Future you is grateful.",
		"This project is practically shining. Take a bow.",
	}},
	{10, 25, []string{
		"The finish line is in sight. Keep the rhythm.",
		"Just a few stragglers left. You've got this.",
		"Most of the heavy lifting is behind you.",
		"A little push and this one is wrapped up.",
	}},
	{25, 50, []string{
		"More than halfway there. Momentum is on your side.",
		"Solid progress. One more task today?",
		"You're past the hard part of getting started.",
		"Steady work pays off. Keep chipping away.",
	}},
	{50, 75, []string{
		"A good start. Pick the next small task and go.",
		"Every checked box counts. Keep going.",
		"You've built some momentum, don't let it cool off.",
		"Halfway is closer than it looks.",
	}},
	{75, 90, []string{
		"Starting is the hardest part, and you've started.",
		"One small task is all it takes to feel better.",
		"No judgement. Just pick one thing and do it.",
		"Your future self will thank you for the next ten minutes.",
	}},
	{90, 100, []string{
		"Fresh start! The first task is waiting for you.",
		"Nothing done yet, and that's fine. Begin with the easiest one.",
		"Deep breath. Open the list and pick one task.",
		"The guilt meter is full. Let's drain it one task at a time.",
	}},
}

// Source picks an index in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

type Tier struct {
	Color   string `json:"color"`
	Message string `json:"message"`
}

type Mapper struct {
	source Source
}

// NewMapper returns a Mapper drawing messages from source. A nil source uses
// the package-level generator, which is safe for concurrent use; a seeded
// *rand.Rand is not and should stay on one goroutine.
func NewMapper(source Source) *Mapper {
	if source == nil {
		source = globalSource{}
	}
	return &Mapper{source: source}
}

func (m *Mapper) Map(guilt int) Tier {
	return Tier{Color: Color(guilt), Message: m.Message(guilt)}
}

// Message picks one message uniformly from the first range containing guilt.
func (m *Mapper) Message(guilt int) string {
	messages := Messages(guilt)
	return messages[m.source.Intn(len(messages))]
}

// Color maps guilt to its band color. Bands are checked in ascending order.
func Color(guilt int) string {
	switch {
	case guilt <= 10:
		return SoftSilver
	case guilt <= 25:
		return PastelMint
	case guilt <= 50:
		return ButterYellow
	case guilt <= 75:
		return Apricot
	case guilt < 100:
		return Coral
	default:
		return Crimson
	}
}

// Messages returns the candidate messages for guilt. Outside [0,100] the
// only candidate is the first message of the last range.
func Messages(guilt int) []string {
	for _, r := range messageRanges {
		if guilt >= r.min && guilt <= r.max {
			return append([]string(nil), r.messages...)
		}
	}
	last := messageRanges[len(messageRanges)-1]
	return []string{last.messages[0]}
}
