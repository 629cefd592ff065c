package model

import "time"

// Karat22Ratio converts a 24K price to its 22K equivalent.
const Karat22Ratio = 0.916

// GoldQuote is the current Indian retail gold price.
type GoldQuote struct {
	Price24K10g int64 // rupees per 10 grams
	Price22K10g int64
	PerGram24K  int64
	PerGram22K  int64
	Source      string
	Note        string
	Estimated   bool // true when no live source produced the price
	FetchedAt   time.Time
}
