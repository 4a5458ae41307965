// Package session holds the process-wide aggregate that survives scene
// transitions: the score and the coin counter.
package session

// Ledger is the score and currency for one play process. Scene transitions
// never reset it; only Reset does.
type Ledger struct {
	score int
	coins int
}

// NewLedger creates a zeroed ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddScore adds points. Non-positive amounts are ignored so the score never
// decreases.
func (l *Ledger) AddScore(points int) {
	if points > 0 {
		l.score += points
	}
}

// AddCoins credits n coins. Non-positive amounts are ignored.
func (l *Ledger) AddCoins(n int) {
	if n > 0 {
		l.coins += n
	}
}

// Score returns the accumulated score.
func (l *Ledger) Score() int { return l.score }

// Coins returns the accumulated coins.
func (l *Ledger) Coins() int { return l.coins }

// Reset zeroes the ledger for a new game.
func (l *Ledger) Reset() {
	l.score = 0
	l.coins = 0
}
