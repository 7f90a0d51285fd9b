package vocab

import (
	_ "embed"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns the built-in starter catalog.
func Seed() (*WordList, error) {
	wl, err := DecodeWordList(seedJSON)
	if err != nil {
		return nil, fmt.Errorf("load seed catalog: %w", err)
	}
	return wl, nil
}
