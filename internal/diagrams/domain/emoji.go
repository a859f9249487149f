package domain

import (
	"crypto/rand"
	"math/big"
)

var diagramEmojis = []string{
	"📊", "📈", "📉", "🗂️", "📁", "🗃️", "📋", "📝", "✏️", "🖊️",
	"🔷", "🔶", "🔹", "🔸", "⬡", "🔲", "🔳", "▪️", "▫️", "◾",
	"🌐", "🔗", "⛓️", "🧩", "🎯", "💡", "⚡", "🔮", "💎", "🏷️",
	"🚀", "🛸", "🌟", "⭐", "✨", "💫", "🌈", "🎨", "🎭", "🎪",
	"🏔️", "🌋", "🏝️", "🌊", "🌀", "🔥", "❄️", "☁️", "🌙", "☀️",
	"🦋", "🐙", "🦑", "🐬", "🐳", "🦈", "🐠", "🐡", "🦀", "🦞",
	"🍎", "🍊", "🍋", "🍇", "🍓", "🍒", "🥝", "🍑", "🥭", "🍍",
}

// RandomEmoji picks a marker for a new diagram.
func RandomEmoji() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(diagramEmojis))))
	if err != nil {
		return diagramEmojis[0]
	}
	return diagramEmojis[n.Int64()]
}

func IsKnownEmoji(s string) bool {
	for _, e := range diagramEmojis {
		if e == s {
			return true
		}
	}
	return false
}
