package soroban

import "encoding/json"

// Soroban RPC transaction status values.
const (
	TxStatusSuccess  = "SUCCESS"
	TxStatusFailed   = "FAILED"
	TxStatusNotFound = "NOT_FOUND"
	TxStatusPending  = "PENDING"
	TxStatusError    = "ERROR"
)

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type LatestLedger struct {
	Sequence uint32 `json:"sequence"`
}

type SimulateResult struct {
	TransactionData string `json:"transactionData"`
	MinResourceFee  string `json:"minResourceFee"`
	Error           string `json:"error"`
	LatestLedger    uint32 `json:"latestLedger"`
}

type SendResult struct {
	Hash           string `json:"hash"`
	Status         string `json:"status"`
	ErrorResultXdr string `json:"errorResultXdr"`
	LatestLedger   uint32 `json:"latestLedger"`
}

type TransactionResult struct {
	Status       string `json:"status"`
	Ledger       uint32 `json:"ledger"`
	ResultXdr    string `json:"resultXdr"`
	LatestLedger uint32 `json:"latestLedger"`
}
