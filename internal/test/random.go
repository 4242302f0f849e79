package test

import (
	"math/rand/v2"

	"github.com/polkiloo/fournil/internal/domain/model"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns an alphanumeric string of length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomLines draws a quantity in [0, maxQty] for every product.
// At least one line is positive so the order is never empty.
func RandomLines(productIDs []int64, maxQty int) []model.LineRequest {
	if maxQty <= 0 {
		maxQty = 1
	}
	lines := make([]model.LineRequest, len(productIDs))
	positive := false
	for i, id := range productIDs {
		lines[i] = model.LineRequest{ProductID: id, Quantity: rand.IntN(maxQty + 1)}
		positive = positive || lines[i].Quantity > 0
	}
	if !positive && len(lines) > 0 {
		lines[rand.IntN(len(lines))].Quantity = 1 + rand.IntN(maxQty)
	}
	return lines
}
