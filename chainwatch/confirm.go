package chainwatch

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/monerorpc"
	"github.com/hedisam/pipeline/chans"
)

// ConfirmationFilter forwards a header from in once the chain has grown depth blocks past it.
// Confirmation is measured by height, so the headers Stream re-emits after stepping back over a
// reorganisation replace the pending headers at the same heights instead of confirming them.
// Headers the daemon flags as orphaned, and pending headers a newer header no longer links to,
// are dropped. Forwarded headers are copies with Depth set to the confirmations they had when released.
// A depth of zero forwards every header as is.
func ConfirmationFilter(ctx context.Context, logger *logrus.Logger, in <-chan *monerorpc.BlockHeader, depth uint) <-chan *monerorpc.BlockHeader {
	out := make(chan *monerorpc.BlockHeader)

	go func() {
		defer close(out)

		pending := newWindow(depth)
		for header := range chans.ReceiveOrDoneSeq(ctx, in) {
			if depth == 0 {
				if !chans.SendOrDone(ctx, out, header) {
					return
				}
				continue
			}

			logger := logger.WithFields(logrus.Fields{
				"height":    header.Height,
				"hash":      header.Hash.String(),
				"prev_hash": header.PrevHash.String(),
			})
			if header.OrphanStatus {
				logger.Warn("Dropping header flagged as orphaned")
				reorgDroppedHeaders.Inc()
				continue
			}
			if tip, ok := pending.newest(); ok && tip.Hash == header.Hash {
				continue
			}

			for pending.len() > 0 {
				tip, _ := pending.newest()
				if tip.Height < header.Height && tip.Hash == header.PrevHash {
					break
				}
				logger.WithFields(logrus.Fields{
					"tip_height": tip.Height,
					"tip_hash":   tip.Hash.String(),
				}).Warn("Chain reorganisation detected, dropping orphaned header")
				pending.dropNewest()
				reorgDroppedHeaders.Inc()
			}

			for pending.len() > 0 {
				oldest, _ := pending.oldest()
				if header.Height < oldest.Height+uint64(depth) {
					break
				}
				pending.popOldest()

				confirmed := *oldest
				confirmed.Depth = header.Height - oldest.Height
				if !chans.SendOrDone(ctx, out, &confirmed) {
					return
				}
			}

			pending.push(header)
		}
	}()

	return out
}
