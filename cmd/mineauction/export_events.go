// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
)

const exportPageSize = 1000

type exportedEvent struct {
	Sequence uint32          `json:"sequence"`
	Time     uint64          `json:"time"`
	Caller   thor.Address    `json:"caller"`
	Address  thor.Address    `json:"address"`
	Name     string          `json:"name"`
	Args     json.RawMessage `json:"args"`
}

func exportEventsAction(ctx *cli.Context) error {
	initLogger(ctx)

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(instanceDir, "logs.db")); err != nil {
		return errors.Wrap(err, "no persisted log database")
	}
	logDB, err := openLogDB(instanceDir)
	if err != nil {
		return err
	}
	defer logDB.Close()

	out := io.Writer(os.Stdout)
	if path := ctx.String(outputFlag.Name); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer file.Close()
		out = file
	}

	newest, err := logDB.NewestSequence()
	if err != nil {
		return err
	}
	bar := pb.New64(int64(newest)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	n, err := exportEvents(handleExitSignal(), logDB, out, func(seq uint32) { bar.Set64(int64(seq)) })
	if err != nil {
		return err
	}
	bar.Finish()
	logger.Info("events exported", "count", n)
	return nil
}

// exportEvents writes every event in ascending order, one JSON object per line.
func exportEvents(ctx context.Context, logDB *logdb.LogDB, w io.Writer, progress func(seq uint32)) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	var total int
	for offset := uint64(0); ; offset += exportPageSize {
		events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{
			Options: &logdb.Options{Offset: offset, Limit: exportPageSize},
			Order:   logdb.ASC,
		})
		if err != nil {
			return total, errors.Wrap(err, "filter events")
		}
		for _, ev := range events {
			if err := enc.Encode(&exportedEvent{
				Sequence: ev.Sequence,
				Time:     ev.Time,
				Caller:   ev.Caller,
				Address:  ev.Address,
				Name:     ev.Name,
				Args:     ev.Data,
			}); err != nil {
				return total, err
			}
			total++
		}
		if len(events) > 0 && progress != nil {
			progress(events[len(events)-1].Sequence)
		}
		if len(events) < exportPageSize {
			break
		}
	}
	return total, bw.Flush()
}
