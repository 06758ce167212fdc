package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
)

// baseURL is the node to node API prefix every peer exposes.
const baseURL = "http://%s/v1/node"

// relayOutcome classifies the response to a broadcast sent to a peer.
type relayOutcome int

const (
	relayOK relayOutcome = iota

	// relayRejected means the peer explicitly refused the payload. The
	// caller must abort the broadcast and surface the failure.
	relayRejected

	// relayConflict means the peer reported its chain disagrees with ours.
	// The broadcast continues but a resolve pass is required.
	relayConflict

	// relayUnreachable means the peer could not be contacted. Unreachable
	// peers are skipped.
	relayUnreachable
)

// blockPayload is the wire shape for broadcasting a mined block.
type blockPayload struct {
	Block database.Block `json:"block"`
}

// NetSendTxToPeers relays a newly admitted transaction to every known
// peer. An explicit rejection aborts the broadcast with ErrPeerRejected.
// A conflict sets the resolve flag and the broadcast continues.
func (s *State) NetSendTxToPeers(tx database.Tx) error {
	for _, pr := range s.knownPeers.Copy(s.host) {
		url := fmt.Sprintf("%s/broadcast-transaction", fmt.Sprintf(baseURL, pr.Host))

		switch s.send(http.MethodPost, url, tx, nil) {
		case relayRejected:
			return fmt.Errorf("peer %s: transaction: %w", pr.Host, ErrPeerRejected)

		case relayConflict:
			s.evHandler("state: NetSendTxToPeers: peer %s reported a conflict", pr.Host)
			s.SetNeedsResolve(true)

		case relayUnreachable:
			s.evHandler("state: NetSendTxToPeers: WARNING: peer %s unreachable", pr.Host)
		}
	}

	return nil
}

// NetSendBlockToPeers relays a freshly mined block to every known peer.
// The outcome handling matches the transaction broadcast.
func (s *State) NetSendBlockToPeers(block database.Block) error {
	for _, pr := range s.knownPeers.Copy(s.host) {
		url := fmt.Sprintf("%s/broadcast-block", fmt.Sprintf(baseURL, pr.Host))

		switch s.send(http.MethodPost, url, blockPayload{Block: block}, nil) {
		case relayRejected:
			return fmt.Errorf("peer %s: block %d: %w", pr.Host, block.Index, ErrPeerRejected)

		case relayConflict:
			s.evHandler("state: NetSendBlockToPeers: peer %s reported a conflict", pr.Host)
			s.SetNeedsResolve(true)

		case relayUnreachable:
			s.evHandler("state: NetSendBlockToPeers: WARNING: peer %s unreachable", pr.Host)
		}
	}

	return nil
}

// NetRequestPeerChain retrieves the full chain from the specified peer for
// conflict resolution.
func (s *State) NetRequestPeerChain(pr peer.Peer) ([]database.Block, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var chain []database.Block
	if err := s.request(http.MethodGet, url, &chain); err != nil {
		return nil, err
	}

	return chain, nil
}

// NetRequestPeerStatus retrieves the chain tip and known peers from the
// specified peer.
func (s *State) NetRequestPeerStatus(pr peer.Peer) (peer.Status, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, pr.Host))

	var status peer.Status
	if err := s.request(http.MethodGet, url, &status); err != nil {
		return peer.Status{}, err
	}

	return status, nil
}

// =============================================================================

// send posts the payload to the url and classifies the response.
func (s *State) send(method string, url string, dataSend any, dataRecv any) relayOutcome {
	status, err := s.do(method, url, dataSend, dataRecv)

	switch {
	case err != nil:
		return relayUnreachable

	case status == http.StatusConflict:
		return relayConflict

	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return relayOK

	default:
		return relayRejected
	}
}

// request performs a call that must succeed with a decoded body.
func (s *State) request(method string, url string, dataRecv any) error {
	status, err := s.do(method, url, nil, dataRecv)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, status)
	}

	return nil
}

// do performs the actual HTTP exchange with the configured client timeout.
func (s *State) do(method string, url string, dataSend any, dataRecv any) (int, error) {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if dataRecv != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return resp.StatusCode, err
		}
	}

	return resp.StatusCode, nil
}
