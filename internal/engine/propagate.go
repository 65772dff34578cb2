package engine

// Status is the outcome of a propagation step.
type Status int

const (
	// Progress means the pass made (or found) no further deterministic
	// progress; the caller must guess to continue.
	Progress Status = iota
	// Solved means every cell is assigned.
	Solved
	// Invalid means the current state is provably inconsistent.
	Invalid
)

// lockedCandidates applies pointing/claiming elimination to every
// (digit, band) pair whose candidates changed since the last pass,
// skipping unchanged bands exactly as prevCandidates is meant to: it is
// written after every successful per-band transform and consulted here as
// the skip predicate. Returns Invalid if any band is eliminated to zero.
func (s *State) lockedCandidates() Status {
	for d := 0; d < digits; d++ {
		for b := 0; b < bands; b++ {
			band := s.candidates[d][b]
			if band == s.prevCandidates[d][b] {
				continue
			}

			row0 := band & fullRow
			row1 := (band >> gridSize) & fullRow
			row2 := (band >> (2 * gridSize)) & fullRow

			triads := int(rowTriadsMaskTbl[row0]) | int(rowTriadsMaskTbl[row1])<<3 | int(rowTriadsMaskTbl[row2])<<6
			band &= keepLockedCandidatesTbl[triads]
			if band == 0 {
				return Invalid
			}
			s.candidates[d][b] = band

			colOcc := (band | (band >> gridSize) | (band >> (2 * gridSize))) & fullRow
			peerMask := colLockedSingleMaskTbl[colOcc]
			for pb := 0; pb < bands; pb++ {
				if pb == b {
					continue
				}
				after := s.candidates[d][pb] & peerMask
				if after != s.candidates[d][pb] {
					if after == 0 {
						return Invalid
					}
					s.candidates[d][pb] = after
				}
			}

			s.prevCandidates[d][b] = s.candidates[d][b]
		}
	}
	return Progress
}

// scanUnit looks for a hidden single for digit among the nine cells of
// unit: a cell that is the only remaining candidate for digit in that
// row, column or box. Returns (assigned, invalid).
func (s *State) scanUnit(unit *[9]int, digit int) (assigned, invalid bool) {
	count := 0
	found := -1
	for _, pos := range unit {
		if s.cellHasCandidate(pos, digit) {
			count++
			found = pos
			if count > 1 {
				break
			}
		}
	}
	if count == 0 {
		return false, true
	}
	if count == 1 && !s.cellSolved(found) {
		if !s.updatePeerCells(found, digit) {
			return false, true
		}
		return true, false
	}
	return false, false
}

// hiddenSingles applies locked-candidate pruning and then scans every row,
// column and box for hidden singles, repeating until a sweep assigns no new
// cell. Candidates removed by the locked-candidate step alone do not trigger
// another sweep.
func (s *State) hiddenSingles() Status {
	for {
		if st := s.lockedCandidates(); st == Invalid {
			return Invalid
		}

		changed := false
		for d := 0; d < digits; d++ {
			for u := 0; u < 9; u++ {
				if a, inv := s.scanUnit(&rowUnits[u], d); inv {
					return Invalid
				} else if a {
					changed = true
				}
				if a, inv := s.scanUnit(&colUnits[u], d); inv {
					return Invalid
				} else if a {
					changed = true
				}
				if a, inv := s.scanUnit(&boxUnits[u], d); inv {
					return Invalid
				} else if a {
					changed = true
				}
			}
		}
		if !changed {
			return Progress
		}
	}
}

// nakedSingles computes, across the nine digit bands, which cells have
// exactly one remaining candidate digit (naked singles) and which have
// exactly two (recorded in pairs, for the guess heuristic). Returns the
// count of newly assigned cells, or -1 if some cell has no candidate at
// all (Invalid).
func (s *State) nakedSingles() int {
	assigned := 0
	for b := 0; b < bands; b++ {
		var once, twice, thrice uint32
		for d := 0; d < digits; d++ {
			c := s.candidates[d][b]
			thrice |= twice & c
			twice |= once & c
			once |= c
		}
		if once&fullBand != fullBand {
			return -1
		}

		s.pairs[b] = twice &^ thrice

		nakedMask := once &^ twice &^ s.solvedCells[b]
		for nakedMask != 0 {
			local := trailingZeros32(nakedMask)
			bit := uint32(1) << uint(local)
			nakedMask &^= bit
			pos := bandBitPosToPos[b][local]

			found := -1
			for d := 0; d < digits; d++ {
				if s.candidates[d][b]&bit != 0 {
					found = d
					break
				}
			}
			if found == -1 {
				return -1
			}
			if !s.updatePeerCells(pos, found) {
				return -1
			}
			assigned++
		}
	}
	return assigned
}

func trailingZeros32(x uint32) int {
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}

// propagate alternates the hidden-singles and naked-singles passes until
// the board is solved, an inconsistency is found, or neither pass can make
// further progress.
func propagate(s *State) Status {
	for {
		if st := s.hiddenSingles(); st == Invalid {
			return Invalid
		}
		if s.solved() {
			return Solved
		}
		n := s.nakedSingles()
		if n < 0 {
			return Invalid
		}
		if n == 0 {
			return Progress
		}
	}
}
