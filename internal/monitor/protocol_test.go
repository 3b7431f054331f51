package monitor

import (
	"testing"

	"tokenwise/pkg/solana"

	"github.com/stretchr/testify/assert"
)

func TestIdentifyProtocol(t *testing.T) {
	t.Run("Instruction Program Id Wins Over Logs", func(t *testing.T) {
		tx := &solana.ParsedTransaction{
			InstructionPrograms: []string{"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"},
			LogMessages:         []string{"Program log: bonding curve complete"},
		}
		assert.Equal(t, "Orca", IdentifyProtocol(tx))
	})

	t.Run("Inner Instruction Program Id", func(t *testing.T) {
		tx := &solana.ParsedTransaction{
			InstructionPrograms:      []string{"ComputeBudget111111111111111111111111111111"},
			InnerInstructionPrograms: []string{"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"},
		}
		assert.Equal(t, "Jupiter", IdentifyProtocol(tx))
	})

	t.Run("Account Key Fallback", func(t *testing.T) {
		tx := &solana.ParsedTransaction{
			AccountKeys: []string{
				"SomeWallet1111111111111111111111111111111111",
				"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
			},
		}
		assert.Equal(t, "Raydium", IdentifyProtocol(tx))
	})

	t.Run("Bonding Curve Logs Mean Pump Fun", func(t *testing.T) {
		tx := &solana.ParsedTransaction{
			LogMessages: []string{"Program log: Instruction: Buy", "Program log: bonding curve state updated"},
		}
		assert.Equal(t, "Pump.fun", IdentifyProtocol(tx))
	})

	t.Run("Keyword Groups Are Ordered", func(t *testing.T) {
		// "route" (Jupiter) appears before the Raydium keywords are tried.
		tx := &solana.ParsedTransaction{
			LogMessages: []string{"executing route through amm"},
		}
		assert.Equal(t, "Jupiter", IdentifyProtocol(tx))
	})

	t.Run("Unknown When Nothing Matches", func(t *testing.T) {
		tx := &solana.ParsedTransaction{
			InstructionPrograms: []string{"ComputeBudget111111111111111111111111111111"},
			AccountKeys:         []string{"SomeWallet1111111111111111111111111111111111"},
			LogMessages:         []string{"Program log: Instruction: Transfer"},
		}
		assert.Equal(t, ProtocolUnknown, IdentifyProtocol(tx))
	})
}
