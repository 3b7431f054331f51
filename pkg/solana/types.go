package solana

import "time"

// SignatureInfo is one entry of a getSignaturesForAddress result, newest
// first as returned by the RPC node.
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime time.Time
	Failed    bool
}

// TokenBalanceChange is a pre or post token balance attached to a
// transaction's metadata.
type TokenBalanceChange struct {
	Mint     string
	Owner    string
	UIAmount float64
}

// ParsedTransaction is the flattened view of a confirmed transaction that the
// monitor needs: account keys, the programs each instruction invoked, log
// lines, and the token balance deltas.
type ParsedTransaction struct {
	Signature                string
	Slot                     uint64
	BlockTime                time.Time
	AccountKeys              []string
	InstructionPrograms      []string
	InnerInstructionPrograms []string
	LogMessages              []string
	PreTokenBalances         []TokenBalanceChange
	PostTokenBalances        []TokenBalanceChange
}

// TokenAccountBalance is one entry of a getTokenLargestAccounts result.
type TokenAccountBalance struct {
	Address string
	Balance float64
}
