package monitor

import (
	"strings"

	"tokenwise/pkg/solana"
)

// ProtocolUnknown is returned when no detection method matches.
const ProtocolUnknown = "Unknown"

// protocolPrograms maps on-chain program ids to protocol labels.
var protocolPrograms = map[string]string{
	// Jupiter
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4": "Jupiter",
	"JUP4jdqG9gCgxUkYAFyDfgdCLqZHqjJbF5fGSPxUPa7": "Jupiter",
	"JUP2jxvXaqu7NQY1GmNF4m1vodw12LVXYxbFL2uJvfo": "Jupiter",

	// Raydium
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium",
	"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM": "Raydium",
	"EhYXq3ANp5nAerUpbSud7VxbWJJwHGyP7qALJLuJ5hs":  "Raydium",
	"HWy1jotHpo6UqeQxx49dpYYdQB8wj9Qk9MdxwjLvDHB8": "Raydium",
	"27haf8L6oxUeXrHrgEgsexjSY5hbVUWEmvv9Nyxg8vQv": "Raydium",

	// Orca
	"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP": "Orca",
	"DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1": "Orca",
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "Orca",
	"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": "Orca",

	// Meteora
	"Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB": "Meteora",
	"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo":  "Meteora",

	// Lifinity
	"EewxydAPCCVuNEyrVN68PuSYdQ7wKn27V9Gjeoi8dy3S": "Lifinity",

	// Aldrin
	"AMM55ShdkoGRB5jVYPjWziwk8m5MpwyDgsMWHaMSQWH6": "Aldrin",

	// Saber
	"SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ": "Saber",

	// Serum/OpenBook
	"EUqojwWA2rd19FZrzeBncJsm38Jm1hEhE3zsmX3bRc2o": "Serum",
	"srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX":  "Serum",

	// Pump.fun
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P": "Pump.fun",

	// Moonshot
	"MoonCVVNZFSYkqNXP6bxHLPL6QQJiMagDL3qcqUQTrG": "Moonshot",
}

// logKeywordGroups is the log-line fallback, tried in this order.
var logKeywordGroups = []struct {
	protocol string
	keywords []string
}{
	{"Jupiter", []string{"jupiter", "jup", "swap aggregator", "route"}},
	{"Raydium", []string{"raydium", "ray", "amm", "liquidity pool"}},
	{"Orca", []string{"orca", "whirlpool", "whirl"}},
	{"Meteora", []string{"meteora", "meteor"}},
	{"Pump.fun", []string{"pump", "bonding curve"}},
	{"Serum", []string{"serum", "openbook", "order book"}},
}

// IdentifyProtocol labels the protocol a transaction used. Detection methods
// are tried in order and the first match wins: instruction program ids,
// inner-instruction program ids, account keys, then keyword search over the
// log lines. Pure and deterministic; unknown transactions get
// ProtocolUnknown.
func IdentifyProtocol(tx *solana.ParsedTransaction) string {
	for _, program := range tx.InstructionPrograms {
		if p, ok := protocolPrograms[program]; ok {
			return p
		}
	}

	for _, program := range tx.InnerInstructionPrograms {
		if p, ok := protocolPrograms[program]; ok {
			return p
		}
	}

	for _, key := range tx.AccountKeys {
		if p, ok := protocolPrograms[key]; ok {
			return p
		}
	}

	combined := strings.ToLower(strings.Join(tx.LogMessages, " "))
	for _, group := range logKeywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(combined, kw) {
				return group.protocol
			}
		}
	}

	return ProtocolUnknown
}
