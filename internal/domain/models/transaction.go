package models

import (
	"encoding/json"
)

// TransactionStatus is the status reported by getTransaction
type TransactionStatus string

const (
	TransactionStatusSuccess  TransactionStatus = "SUCCESS"
	TransactionStatusFailed   TransactionStatus = "FAILED"
	TransactionStatusNotFound TransactionStatus = "NOT_FOUND"
)

// IsTerminal reports whether polling can stop
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// SendStatus is the status reported by sendTransaction
type SendStatus string

const (
	SendStatusPending       SendStatus = "PENDING"
	SendStatusDuplicate     SendStatus = "DUPLICATE"
	SendStatusTryAgainLater SendStatus = "TRY_AGAIN_LATER"
	SendStatusError         SendStatus = "ERROR"
)

// Submission is the immediate answer to a sendTransaction call
type Submission struct {
	Hash                string
	Status              SendStatus
	ErrorResultXDR      string
	DiagnosticEventsXDR []string
}

// TransactionInfo is the polled view of a submitted transaction
type TransactionInfo struct {
	Hash                string
	Status              TransactionStatus
	Ledger              uint32
	ReturnValueXDR      string
	ResultXDR           string
	DiagnosticEventsXDR []string
}

// Simulation is the result of simulateTransaction
type Simulation struct {
	ResultXDR      string
	MinResourceFee string
	Error          string
	EventsXDR      []string
	LatestLedger   uint32
}

// InvokeResult is returned by every contract invocation
type InvokeResult struct {
	ContractID     string          `json:"contractId"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	Hash           string          `json:"hash,omitempty"`
	Simulated      bool            `json:"simulated"`
	ReturnXDR      string          `json:"returnXdr,omitempty"`
	ReturnValue    json.RawMessage `json:"returnValue,omitempty"`
	MinResourceFee string          `json:"minResourceFee,omitempty"`
}

// Artifact is a compiled contract ready to be uploaded
type Artifact struct {
	Name string
	Path string
	Hash string
	Size int64
}

// NetworkHealth is the answer of getHealth for a configured network
type NetworkHealth struct {
	Status              string `json:"status"`
	LatestLedger        uint32 `json:"latestLedger"`
	OldestLedger        uint32 `json:"oldestLedger"`
	LedgerRetentionSize uint32 `json:"ledgerRetentionWindow"`
}
