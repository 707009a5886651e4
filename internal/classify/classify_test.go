package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		product string
		want    string
	}{
		{"fresh onion", "свежий лук", "0703101900"},
		{"onion repeated call is pure", "свежий лук", "0703101900"},
		{"case insensitive", "ЛУК РЕПЧАТЫЙ", "0703101900"},
		{"potato", "Картофель продовольственный", "0701905000"},
		{"tomato synonym", "помидоры сливовидные", "0702000007"},
		{"apples", "яблоки сорта Гала", "0808108010"},
		{"watermelon", "арбузы", "0807110000"},
		{"unknown product falls back", "неизвестный фрукт", DefaultCode},
		{"empty input falls back", "", DefaultCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.product))
		})
	}
}

func TestDetectFirstMatchWins(t *testing.T) {
	// Both "лук" and "картофел" appear; the table declares "лук" first.
	assert.Equal(t, "0703101900", Detect("лук и картофель"))
}
