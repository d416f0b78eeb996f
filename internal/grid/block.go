package grid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// BlockType identifies which life activity a block represents.
type BlockType string

// Block types that can appear on the board.
const (
	TypeWork   BlockType = "work"
	TypeStudy  BlockType = "study"
	TypeSport  BlockType = "sport"
	TypeSocial BlockType = "social"
	TypeRest   BlockType = "rest"
)

// MaxTier is the highest tier a block can reach through merging.
const MaxTier = 4

// KnownTypes returns every built-in block type.
func KnownTypes() []BlockType {
	return []BlockType{TypeWork, TypeStudy, TypeSport, TypeSocial, TypeRest}
}

// Block is a typed, tiered piece occupying exactly one board cell.
// Store methods hand out copies, so holding a Block never aliases
// live board state.
type Block struct {
	ID        string
	Type      BlockType
	Tier      int
	Pos       Position
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBlock creates a block with a fresh unique ID at the given position.
func NewBlock(t BlockType, tier int, pos Position) Block {
	now := time.Now()
	return Block{
		ID:        newBlockID(),
		Type:      t,
		Tier:      tier,
		Pos:       pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newBlockID generates a random 8-character uppercase identifier.
func newBlockID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("B%07X", time.Now().UnixNano()&0xFFFFFFF)
	}
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:8])
}
