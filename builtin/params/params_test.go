// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
)

func TestParamsGetSet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	setv := big.NewInt(10)
	key := thor.BytesToBytes32([]byte("key"))
	p := New(thor.BytesToAddress([]byte("par")), st)

	getv, err := p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 0, getv.Sign())

	require.NoError(t, p.Set(key, setv))
	getv, err = p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, setv, getv)

	require.NoError(t, p.Set(key, new(big.Int)))
	raw, err := st.GetRawStorage(thor.BytesToAddress([]byte("par")), key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}
