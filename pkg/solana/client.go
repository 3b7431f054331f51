package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps the Solana JSON-RPC client with the calls the monitor and the
// discovery job consume. All reads use confirmed commitment.
type Client struct {
	rpc *rpc.Client
}

// NewClient creates a client against the given RPC endpoint.
func NewClient(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// SignaturesForWallet returns signatures newer than until for the wallet,
// newest first. An empty until fetches the most recent page.
func (c *Client) SignaturesForWallet(ctx context.Context, wallet string, until string, limit int) ([]SignatureInfo, error) {
	pubkey, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address %s: %w", wallet, err)
	}

	opts := &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	}
	if until != "" {
		untilSig, err := solana.SignatureFromBase58(until)
		if err != nil {
			return nil, fmt.Errorf("invalid until signature %s: %w", until, err)
		}
		opts.Until = untilSig
	}

	out, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, pubkey, opts)
	if err != nil {
		return nil, fmt.Errorf("getSignaturesForAddress failed for %s: %w", wallet, err)
	}

	sigs := make([]SignatureInfo, 0, len(out))
	for _, s := range out {
		info := SignatureInfo{
			Signature: s.Signature.String(),
			Slot:      s.Slot,
			Failed:    s.Err != nil,
		}
		if s.BlockTime != nil {
			info.BlockTime = s.BlockTime.Time()
		}
		sigs = append(sigs, info)
	}
	return sigs, nil
}

// ParsedTransaction fetches the full transaction for a signature and flattens
// it. A transaction the node no longer has, or one without metadata, returns
// (nil, nil): there is nothing to record.
func (c *Client) ParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %s: %w", signature, err)
	}

	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getTransaction failed for %s: %w", signature, err)
	}
	if out == nil || out.Meta == nil || out.Transaction == nil {
		return nil, nil
	}

	decoded, err := out.Transaction.GetTransaction()
	if err != nil || decoded == nil {
		// Undecodable payloads are treated like absent metadata.
		return nil, nil
	}

	parsed := &ParsedTransaction{
		Signature:   signature,
		Slot:        out.Slot,
		LogMessages: out.Meta.LogMessages,
	}
	if out.BlockTime != nil {
		parsed.BlockTime = out.BlockTime.Time()
	}

	// Static keys first, then the addresses loaded from lookup tables, so
	// instruction program indexes resolve against the same ordering the
	// node used.
	keys := make([]solana.PublicKey, 0, len(decoded.Message.AccountKeys))
	keys = append(keys, decoded.Message.AccountKeys...)
	keys = append(keys, out.Meta.LoadedAddresses.Writable...)
	keys = append(keys, out.Meta.LoadedAddresses.ReadOnly...)
	for _, k := range keys {
		parsed.AccountKeys = append(parsed.AccountKeys, k.String())
	}

	for _, inst := range decoded.Message.Instructions {
		if int(inst.ProgramIDIndex) < len(keys) {
			parsed.InstructionPrograms = append(parsed.InstructionPrograms, keys[inst.ProgramIDIndex].String())
		}
	}
	for _, innerSet := range out.Meta.InnerInstructions {
		for _, inst := range innerSet.Instructions {
			if int(inst.ProgramIDIndex) < len(keys) {
				parsed.InnerInstructionPrograms = append(parsed.InnerInstructionPrograms, keys[inst.ProgramIDIndex].String())
			}
		}
	}

	parsed.PreTokenBalances = convertTokenBalances(out.Meta.PreTokenBalances)
	parsed.PostTokenBalances = convertTokenBalances(out.Meta.PostTokenBalances)

	return parsed, nil
}

func convertTokenBalances(balances []rpc.TokenBalance) []TokenBalanceChange {
	out := make([]TokenBalanceChange, 0, len(balances))
	for _, b := range balances {
		change := TokenBalanceChange{
			Mint: b.Mint.String(),
		}
		if b.Owner != nil {
			change.Owner = b.Owner.String()
		}
		if b.UiTokenAmount != nil && b.UiTokenAmount.UiAmount != nil {
			change.UIAmount = *b.UiTokenAmount.UiAmount
		}
		out = append(out, change)
	}
	return out
}

// TokenLargestAccounts returns the largest token accounts for a mint, in
// balance order.
func (c *Client) TokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error) {
	mintPubkey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint %s: %w", mint, err)
	}

	out, err := c.rpc.GetTokenLargestAccounts(ctx, mintPubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("getTokenLargestAccounts failed: %w", err)
	}

	accounts := make([]TokenAccountBalance, 0, len(out.Value))
	for _, v := range out.Value {
		balance := TokenAccountBalance{Address: v.Address.String()}
		if v.UiAmount != nil {
			balance.Balance = *v.UiAmount
		}
		accounts = append(accounts, balance)
	}
	return accounts, nil
}

// TokenAccountOwner resolves the owner wallet of an SPL token account.
func (c *Client) TokenAccountOwner(ctx context.Context, account string) (string, error) {
	pubkey, err := solana.PublicKeyFromBase58(account)
	if err != nil {
		return "", fmt.Errorf("invalid token account %s: %w", account, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	info, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		return "", fmt.Errorf("getAccountInfo failed for %s: %w", account, err)
	}
	if info == nil || info.Value == nil {
		return "", fmt.Errorf("token account %s not found", account)
	}

	var tokenAccount token.Account
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&tokenAccount); err != nil {
		return "", fmt.Errorf("failed to decode token account %s: %w", account, err)
	}

	return tokenAccount.Owner.String(), nil
}
