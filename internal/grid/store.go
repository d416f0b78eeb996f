// Package grid implements the board state: a bounded rectangle of
// cells where each cell holds at most one block. The Store is the
// single authoritative owner of block placement; recognizers and
// executors read and mutate the board only through it.
package grid

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"
)

// Store maps positions to blocks on a bounded board.
//
// All methods are safe for concurrent use. Every check-then-act
// sequence (occupancy check plus insert, existence check plus delete)
// runs under one internal lock, so callers never need their own.
// Returned blocks are copies of the stored values.
type Store struct {
	width  int
	height int

	mu    sync.RWMutex
	byPos map[Position]Block
	byID  map[string]Position
}

// NewStore creates an empty store with the given dimensions.
func NewStore(width, height int) *Store {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Store{
		width:  width,
		height: height,
		byPos:  make(map[Position]Block),
		byID:   make(map[string]Position),
	}
}

// Size returns the board dimensions.
func (s *Store) Size() (width, height int) {
	return s.width, s.height
}

// InBounds reports whether p lies on the board.
func (s *Store) InBounds(p Position) bool {
	return p.X >= 0 && p.X < s.width && p.Y >= 0 && p.Y < s.height
}

// Place inserts a block at its position.
// Fails if the position is out of bounds, already occupied, or the
// block is malformed. The store is unchanged on failure.
func (s *Store) Place(b Block) error {
	if b.ID == "" {
		return fmt.Errorf("grid: cannot place at %s: block id required", b.Pos)
	}
	if b.Tier < 1 {
		return fmt.Errorf("grid: cannot place %q at %s: tier %d below 1", b.ID, b.Pos, b.Tier)
	}
	if !s.InBounds(b.Pos) {
		return fmt.Errorf("grid: cannot place %q at %s: %w", b.ID, b.Pos, ErrOutOfBounds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byPos[b.Pos]; taken {
		return fmt.Errorf("grid: cannot place %q at %s: %w", b.ID, b.Pos, ErrOccupied)
	}
	if _, dup := s.byID[b.ID]; dup {
		return fmt.Errorf("grid: cannot place %q at %s: duplicate block id", b.ID, b.Pos)
	}

	s.byPos[b.Pos] = b
	s.byID[b.ID] = b.Pos
	return nil
}

// At returns a copy of the block at p, if any.
func (s *Store) At(p Position) (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byPos[p]
	return b, ok
}

// ByID returns a copy of the block with the given ID, if any.
func (s *Store) ByID(id string) (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	if !ok {
		return Block{}, false
	}
	return s.byPos[pos], true
}

// IsEmpty reports whether the cell at p holds no block.
// Out-of-bounds positions are never empty: nothing can go there.
func (s *Store) IsEmpty(p Position) bool {
	if !s.InBounds(p) {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.byPos[p]
	return !taken
}

// Remove deletes the block at p and returns it.
func (s *Store) Remove(p Position) (Block, error) {
	if !s.InBounds(p) {
		return Block{}, fmt.Errorf("grid: cannot remove at %s: %w", p, ErrOutOfBounds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byPos[p]
	if !ok {
		return Block{}, fmt.Errorf("grid: cannot remove at %s: %w", p, ErrEmpty)
	}
	delete(s.byPos, p)
	delete(s.byID, b.ID)
	return b, nil
}

// RemoveByID deletes the block with the given ID and returns it.
func (s *Store) RemoveByID(id string) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.byID[id]
	if !ok {
		return Block{}, fmt.Errorf("grid: cannot remove %q: %w", id, ErrNotFound)
	}
	b := s.byPos[pos]
	delete(s.byPos, pos)
	delete(s.byID, id)
	return b, nil
}

// Move relocates the block at from to the empty cell at to and
// returns the moved block. The board is unchanged on failure.
func (s *Store) Move(from, to Position) (Block, error) {
	if !s.InBounds(from) {
		return Block{}, fmt.Errorf("grid: cannot move from %s: %w", from, ErrOutOfBounds)
	}
	if !s.InBounds(to) {
		return Block{}, fmt.Errorf("grid: cannot move to %s: %w", to, ErrOutOfBounds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byPos[from]
	if !ok {
		return Block{}, fmt.Errorf("grid: cannot move from %s: %w", from, ErrEmpty)
	}
	if _, taken := s.byPos[to]; taken {
		return Block{}, fmt.Errorf("grid: cannot move to %s: %w", to, ErrOccupied)
	}

	delete(s.byPos, from)
	b.Pos = to
	b.UpdatedAt = time.Now()
	s.byPos[to] = b
	s.byID[b.ID] = to
	return b, nil
}

// Blocks returns a snapshot of every block in row-major order.
func (s *Store) Blocks() []Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Block, 0, len(s.byPos))
	for _, b := range s.byPos {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// Adjacent returns the blocks in the four cells orthogonally
// adjacent to p.
func (s *Store) Adjacent(p Position) []Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Block
	for _, n := range p.Neighbors4() {
		if b, ok := s.byPos[n]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of blocks on the board.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byPos)
}

// Clear removes every block.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byPos = make(map[Position]Block)
	s.byID = make(map[string]Position)
}

// Hash returns a digest of the board layout: which cells hold which
// type at which tier. Block identity is excluded, so two boards built
// independently but identically hash the same. That makes the digest
// comparable across runs, which replay and simulation tests rely on.
func (s *Store) Hash() uint64 {
	blocks := s.Blocks()

	h := fnv.New64a()
	fmt.Fprintf(h, "%dx%d", s.width, s.height)
	for _, b := range blocks {
		fmt.Fprintf(h, "|%s:%d:%d,%d", b.Type, b.Tier, b.Pos.X, b.Pos.Y)
	}
	return h.Sum64()
}
