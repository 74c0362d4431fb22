package model

// TradeSide labels a simulated fill. Keep these values stable; they are
// intended for JSON and CSV output.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)
