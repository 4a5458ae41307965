package session

import "testing"

func TestLedger_Monotonic(t *testing.T) {
	l := NewLedger()
	l.AddScore(2)
	l.AddScore(0)
	l.AddScore(-5)
	l.AddScore(3)
	if l.Score() != 5 {
		t.Errorf("Score() = %d, want 5", l.Score())
	}
}

func TestLedger_Coins(t *testing.T) {
	l := NewLedger()
	l.AddCoins(4)
	l.AddCoins(-1)
	if l.Coins() != 4 {
		t.Errorf("Coins() = %d, want 4", l.Coins())
	}
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	l.AddScore(9)
	l.AddCoins(9)
	l.Reset()
	if l.Score() != 0 || l.Coins() != 0 {
		t.Errorf("after Reset: score=%d coins=%d", l.Score(), l.Coins())
	}
}
