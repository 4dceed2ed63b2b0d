// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/thor"
)

// Status describes the running engine.
type Status struct {
	GenesisID    thor.Bytes32 `json:"genesisId"`
	Version      string       `json:"version"`
	HeadSequence uint32       `json:"headSequence"`
	HeadTime     uint64       `json:"headTime"`
	LogsEnabled  bool         `json:"logsEnabled"`
	CallsAllowed bool         `json:"callsAllowed"`
}

type Node struct {
	engine       *engine.Engine
	logsEnabled  bool
	callsAllowed bool
}

func New(e *engine.Engine, logsEnabled, callsAllowed bool) *Node {
	return &Node{
		e,
		logsEnabled,
		callsAllowed,
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	head := n.engine.Head()
	return utils.WriteJSON(w, &Status{
		GenesisID:    n.engine.GenesisID(),
		Version:      n.engine.Version(),
		HeadSequence: head.Sequence,
		HeadTime:     head.Time,
		LogsEnabled:  n.logsEnabled,
		CallsAllowed: n.callsAllowed,
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
