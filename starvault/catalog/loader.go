package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// packFile mirrors the shop catalog document layout: a top-level
// "packs" array alongside optional metadata.
type packFile struct {
	Packs []*PackDef `json:"packs"`
}

// Decode builds a catalog from the raw card and pack documents. The card
// document is a JSON array of definitions; the pack document wraps its
// array in a "packs" field.
func Decode(cardsDoc, packsDoc io.Reader) (*Catalog, error) {
	var cards []*CardDef
	if err := json.NewDecoder(cardsDoc).Decode(&cards); err != nil {
		return nil, fmt.Errorf("failed to decode card definitions: %w", err)
	}

	var packs packFile
	if err := json.NewDecoder(packsDoc).Decode(&packs); err != nil {
		return nil, fmt.Errorf("failed to decode pack definitions: %w", err)
	}

	return New(cards, packs.Packs)
}

// LoadFiles reads the catalog from local JSON files.
func LoadFiles(cardsPath, packsPath string) (*Catalog, error) {
	cardsFile, err := os.Open(cardsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open card definitions: %w", err)
	}
	defer cardsFile.Close()

	packsFile, err := os.Open(packsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack definitions: %w", err)
	}
	defer packsFile.Close()

	return Decode(cardsFile, packsFile)
}
