package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	receiptNodeMu sync.Mutex
	receiptNode   *snowflake.Node
)

// InitReceiptNode sets the snowflake node used for receipt numbers.
func InitReceiptNode(nodeID int64) error {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	receiptNodeMu.Lock()
	receiptNode = node
	receiptNodeMu.Unlock()
	return nil
}

var errReceiptNodeNotSet = errors.New("receipt node not initialized")

// NextReceiptNumber returns a unique, time ordered receipt number like
// REC-20261016-<id>. InitReceiptNode must have been called.
func NextReceiptNumber(now time.Time) (string, error) {
	receiptNodeMu.Lock()
	node := receiptNode
	receiptNodeMu.Unlock()
	if node == nil {
		return "", errReceiptNodeNotSet
	}
	return "REC-" + now.Format("20060102") + "-" + node.Generate().Base36(), nil
}
