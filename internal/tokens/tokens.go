// Package tokens estimates token counts for context payloads.
package tokens

import (
	"log"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	once sync.Once
	enc  *tiktoken.Tiktoken
)

func encoding() *tiktoken.Tiktoken {
	once.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Printf("tokens: tiktoken unavailable, falling back to heuristic: %v", err)
			return
		}
		enc = e
	})
	return enc
}

// Estimate returns the token count of text under the cl100k_base
// encoding. When the encoding data cannot be loaded it falls back to
// the chars/4 heuristic.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	if e := encoding(); e != nil {
		return len(e.Encode(text, nil, nil))
	}
	return len(text) / 4
}
