// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math"
	"strconv"
)

// Revision selects a point in the call sequence: the newest one, or an explicit sequence number.
type Revision struct {
	best bool
	seq  uint32
}

// ParseRevision parses a query parameter into a sequence number. Empty or "best" selects the newest.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{best: true}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 0)
	if err != nil {
		return nil, err
	}
	if n > math.MaxUint32 {
		return nil, errors.New("sequence out of max uint32")
	}
	return &Revision{seq: uint32(n)}, nil
}

func (rev *Revision) IsBest() bool { return rev.best }

// Sequence returns the selected sequence number, valid only if not IsBest.
func (rev *Revision) Sequence() uint32 { return rev.seq }
