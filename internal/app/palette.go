package app

import "sync"

// palette order matters: allocation is purely positional, so reordering
// would change every assignment after a restart.
var palette = [...]string{
	"#e21400", "#91580f", "#f8a700", "#f78b00",
	"#58dc00", "#287b00", "#a8f07a", "#4ae8c4",
	"#3b88eb", "#3824aa", "#a700ff", "#d300e7",
}

// ColorWheel hands out display colors round-robin. Colors are never
// freed on disconnect; the counter only resets with the process.
type ColorWheel struct {
	mu sync.Mutex
	n  int
}

func NewColorWheel() *ColorWheel {
	return &ColorWheel{}
}

func (w *ColorWheel) Next() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := palette[w.n%len(palette)]
	w.n++
	return c
}
