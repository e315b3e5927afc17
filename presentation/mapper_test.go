package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestColorBands(t *testing.T) {
	cases := []struct {
		guilt int
		want  string
	}{
		{0, SoftSilver},
		{10, SoftSilver},
		{11, PastelMint},
		{25, PastelMint},
		{26, ButterYellow},
		{50, ButterYellow},
		{51, Apricot},
		{75, Apricot},
		{76, Coral},
		{99, Coral},
		{100, Crimson},
		{150, Crimson},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Color(c.guilt), "guilt %d", c.guilt)
	}
}

func TestColorBoundaryFirstMatchWins(t *testing.T) {
	assert.Equal(t, SoftSilver, Color(10))
	assert.NotEqual(t, PastelMint, Color(10))
}

func TestMessageForZeroGuilt(t *testing.T) {
	want := []string{
		"You're basically done. Go claim that reward!",
		"Guilt level: barely a whisper. Nicely done.",
		"Almost nothing left. Future you is grateful.",
		"This project is practically shining. Take a bow.",
	}
	m := NewMapper(nil)
	for i := 0; i < 50; i++ {
		assert.Contains(t, want, m.Message(0))
	}
}

func TestMessageBoundaryUsesEarlierRange(t *testing.T) {
	m := NewMapper(rand.New(rand.NewSource(7)))
	for _, edge := range []int{10, 25, 50, 75, 90} {
		for i := 0; i < 20; i++ {
			msg := m.Message(edge)
			assert.Contains(t, Messages(edge-1), msg, "guilt %d", edge)
		}
	}
	assert.Equal(t, Messages(0), Messages(10))
	assert.NotEqual(t, Messages(10), Messages(11))
}

func TestEveryRangeReachable(t *testing.T) {
	seen := map[string]bool{}
	for guilt := 0; guilt <= 100; guilt++ {
		candidates := Messages(guilt)
		require.Len(t, candidates, 4, "guilt %d", guilt)
		for _, c := range candidates {
			seen[c] = true
		}
	}
	assert.Len(t, seen, 24)
}

func TestMessageFallback(t *testing.T) {
	fallback := "Fresh start! The first task is waiting for you."
	m := NewMapper(nil)
	assert.Equal(t, fallback, m.Message(-1))
	assert.Equal(t, fallback, m.Message(101))
	assert.Equal(t, []string{fallback}, Messages(250))
}

func TestSeededMapperIsReproducible(t *testing.T) {
	a := NewMapper(rand.New(rand.NewSource(42)))
	b := NewMapper(rand.New(rand.NewSource(42)))
	for guilt := 0; guilt <= 100; guilt += 5 {
		assert.Equal(t, a.Map(guilt), b.Map(guilt))
	}
}

func TestMapCombinesColorAndMessage(t *testing.T) {
	tier := NewMapper(rand.New(rand.NewSource(1))).Map(25)
	assert.Equal(t, PastelMint, tier.Color)
	assert.Contains(t, Messages(25), tier.Message)
}

type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func TestMessageUsesInjectedSource(t *testing.T) {
	m := NewMapper(fixedSource(1))
	assert.Equal(t, "Solid progress. One more task today?", m.Message(40))
}

func TestMessagesReturnsCopy(t *testing.T) {
	got := Messages(0)
	got[0] = "changed"
	assert.NotEqual(t, "changed", Messages(0)[0])
}
