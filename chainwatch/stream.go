// Package chainwatch follows the tip of a monerod chain.
//
// Stream polls the daemon and emits every new block header once, in height order.
// ConfirmationFilter holds headers back until enough blocks have been built on top of them.
package chainwatch

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/monerorpc"
	"github.com/hedisam/pipeline/chans"
)

// rewindLimit is how many emitted headers Stream remembers to find where a reorganised chain forks off.
const rewindLimit = 64

// HeaderSource is satisfied by monerorpc.Daemon.
type HeaderSource interface {
	GetBlockHeader(ctx context.Context, selector monerorpc.BlockHeaderSelector) (*monerorpc.BlockHeader, error)
}

// Stream emits the current chain tip and then every following header, polling src every pollInterval.
// When the chain is reorganised, Stream steps back to the fork point and emits the headers of the new chain,
// so a header's PrevHash always matches the previously emitted header unless the fork is deeper than it remembers.
// The channel is closed once ctx is done.
func Stream(ctx context.Context, logger *logrus.Logger, src HeaderSource, pollInterval time.Duration) <-chan *monerorpc.BlockHeader {
	out := make(chan *monerorpc.BlockHeader)

	go func() {
		defer close(out)

		p := &poller{
			logger:  logger,
			src:     src,
			out:     out,
			history: newWindow(rewindLimit),
		}

		if !p.poll(ctx) {
			return
		}

		t := time.NewTicker(pollInterval)
		defer t.Stop()

		for range chans.ReceiveOrDoneSeq(ctx, t.C) {
			if !p.poll(ctx) {
				return
			}
		}
	}()

	return out
}

type poller struct {
	logger  *logrus.Logger
	src     HeaderSource
	out     chan<- *monerorpc.BlockHeader
	history *window
	started bool
	next    uint64
}

// poll emits headers until it catches up with the daemon. It returns false once ctx is done.
func (p *poller) poll(ctx context.Context) bool {
	for {
		selector := monerorpc.ByHeight(p.next)
		if !p.started {
			selector = monerorpc.Last()
		}

		header, err := p.src.GetBlockHeader(ctx, selector)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			if errors.Is(err, monerorpc.ErrInvalidHeight) {
				// not mined yet
				return true
			}
			p.logger.WithField("selector", selector.String()).WithError(err).Error("Failed to poll block header")
			failedPolls.Inc()
			return true
		}

		tip, ok := p.history.newest()
		if ok && header.PrevHash != tip.Hash {
			p.logger.WithFields(logrus.Fields{
				"height":    header.Height,
				"prev_hash": header.PrevHash.String(),
				"tip_hash":  tip.Hash.String(),
			}).Warn("Chain reorganisation detected, stepping back")
			p.history.dropNewest()
			rewoundHeaders.Inc()
			p.next = tip.Height
			continue
		}

		p.logger.WithFields(logrus.Fields{
			"height": header.Height,
			"hash":   header.Hash.String(),
		}).Debug("Received block header")
		if !chans.SendOrDone(ctx, p.out, header) {
			return false
		}
		polledHeaders.Inc()

		if p.history.full() {
			p.history.popOldest()
		}
		p.history.push(header)
		p.started = true
		p.next = header.Height + 1
	}
}
