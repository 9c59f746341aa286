// Package monerorpc is a typed client for the monerod and monero-wallet-rpc JSON-RPC services.
//
// A Client is built once from a Config and then used through one of its views:
//
//	client, err := monerorpc.New(logger, monerorpc.Config{URL: "http://localhost:18081"})
//	if err != nil {
//		return err
//	}
//	height, err := client.Daemon().GetBlockCount(ctx)
//
// Every method performs exactly one HTTP round trip, except Wallet.AwaitHeight which polls.
// Failures are reported as *TransportError, *ProtocolError, *RemoteError, *StatusError or
// *DecodingError, or wrap one of the package's sentinel errors.
package monerorpc
