// Package feedback holds the canned recommendations shown when no generated
// feedback is available.
package feedback

// Band is a score range with its canned recommendation.
type Band struct {
	Name     string
	MinScore int
	Message  string
}

// Bands are ordered from the highest threshold down.
var Bands = []Band{
	{
		Name:     "excellent",
		MinScore: 80,
		Message:  "Отличное соответствие! Ваш профиль хорошо подходит под требования вакансии. Рекомендуем откликнуться.",
	},
	{
		Name:     "good",
		MinScore: 60,
		Message:  "Хорошее соответствие. Есть несколько областей для развития, но в целом профиль релевантен. Стоит откликнуться.",
	},
	{
		Name:     "partial",
		MinScore: 40,
		Message:  "Частичное соответствие. Рекомендуем усилить профиль недостающими навыками перед откликом.",
	},
	{
		Name:     "low",
		MinScore: 0,
		Message:  "Низкое соответствие. Возможно, стоит рассмотреть другие вакансии или дополнить свои компетенции.",
	},
}

// BandFor returns the band the score falls into. Scores below zero land in the lowest band.
func BandFor(score int) Band {
	for _, b := range Bands {
		if score >= b.MinScore {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// Default returns the canned recommendation for the score.
func Default(score int) string {
	return BandFor(score).Message
}
