package delivery

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/x-xyz/listings/domain"
)

type EventResp struct {
	Address string       `json:"address"`
	Name    string       `json:"name"`
	Event   domain.Event `json:"event"`
	// Topics and Data are the raw log, set for events with an ABI encoding
	Topics []common.Hash `json:"topics,omitempty"`
	Data   string        `json:"data,omitempty"`
}

// ReceiptResp is how a committed transaction is rendered to clients
type ReceiptResp struct {
	TxId      string      `json:"txId"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Value     string      `json:"value"`
	Timestamp uint64      `json:"timestamp"`
	Events    []EventResp `json:"events"`
}

func toEventResp(l domain.Log) EventResp {
	res := EventResp{Address: l.Address.Hex(), Name: l.Event.EventName(), Event: l.Event}
	e, ok := l.Event.(domain.EthEvent)
	if !ok {
		return res
	}
	if log, err := e.EthLog(l.Address); err == nil {
		res.Topics = log.Topics
		res.Data = hexutil.Encode(log.Data)
	}
	return res
}

func ToReceiptResp(r *domain.Receipt) ReceiptResp {
	events := make([]EventResp, 0, len(r.Logs))
	for _, l := range r.Logs {
		events = append(events, toEventResp(l))
	}
	return ReceiptResp{
		TxId:      r.TxId,
		From:      r.From.Hex(),
		To:        r.To.Hex(),
		Value:     domain.BigOrZero(r.Value).String(),
		Timestamp: r.Timestamp,
		Events:    events,
	}
}
