package monitor

import (
	"context"
	"math"
	"time"

	"tokenwise/internal/models"
	"tokenwise/pkg/solana"

	"github.com/sirupsen/logrus"
)

// amountEpsilon is the smallest token delta considered a real movement.
const amountEpsilon = 1e-9

// quoteMints are scanned in this order; the first non-negligible delta wins.
// A transaction touching two quote currencies records only the first.
var quoteMints = []string{
	"So11111111111111111111111111111111111111112", // wSOL
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", // USDT
}

// TransactionSink persists classified transactions. Inserts are idempotent
// on signature.
type TransactionSink interface {
	InsertTransaction(tx *models.Transaction) error
}

// EventPublisher pushes stored transactions to downstream consumers.
// Satisfied by config.Publisher.
type EventPublisher interface {
	Publish(queueName string, message interface{}) error
}

// Processor drains the signature queue, one item per tick, fetches the full
// transaction through the shared rate limiter, classifies it and persists
// the result. Throughput is bounded by the tick rate and the limiter, never
// by queue depth.
type Processor struct {
	limiter *RateLimiter
	chain   ChainRPC
	tracker *ActivityTracker
	queue   *SignatureQueue
	sink    TransactionSink

	tokenMint string

	// optional event stream
	publisher  EventPublisher
	eventQueue string
}

// NewProcessor creates a processor for the monitored mint.
func NewProcessor(limiter *RateLimiter, chain ChainRPC, tracker *ActivityTracker, queue *SignatureQueue, sink TransactionSink, tokenMint string) *Processor {
	return &Processor{
		limiter:   limiter,
		chain:     chain,
		tracker:   tracker,
		queue:     queue,
		sink:      sink,
		tokenMint: tokenMint,
	}
}

// WithPublisher attaches an event publisher; every stored transaction is also
// published to queueName.
func (p *Processor) WithPublisher(publisher EventPublisher, queueName string) *Processor {
	p.publisher = publisher
	p.eventQueue = queueName
	return p
}

// ProcessNext dequeues at most one pending signature and processes it. The
// signature was marked processed on dequeue, so any drop below is final.
func (p *Processor) ProcessNext(ctx context.Context) {
	item, ok := p.queue.Next()
	if !ok {
		return
	}

	result, err := p.limiter.Submit(ctx, item.Priority, func(ctx context.Context) (interface{}, error) {
		return p.chain.ParsedTransaction(ctx, item.Signature)
	})
	if err != nil {
		logrus.Errorf("Processor error at %s: %v", shortSig(item.Signature), err)
		return
	}

	tx, _ := result.(*solana.ParsedTransaction)
	if tx == nil {
		// No transaction or no metadata: nothing to record.
		return
	}

	// First tracked wallet in account-key order is the monitored
	// participant, even when several tracked wallets appear.
	var monitored string
	for _, key := range tx.AccountKeys {
		if p.tracker.Tracked(key) {
			monitored = key
			break
		}
	}
	if monitored == "" {
		return
	}

	tokenChange := balanceDelta(tx, p.tokenMint, monitored)
	if math.Abs(tokenChange) < amountEpsilon {
		// Not a movement of the monitored token for this wallet.
		return
	}

	p.tracker.RecordTransaction(monitored)

	var quoteChange float64
	for _, mint := range quoteMints {
		if change := balanceDelta(tx, mint, monitored); math.Abs(change) > amountEpsilon {
			quoteChange = change
			break
		}
	}

	transactionType := "sell"
	if tokenChange > 0 {
		transactionType = "buy"
	}

	record := &models.Transaction{
		Signature:       item.Signature,
		Timestamp:       tx.BlockTime,
		WalletAddress:   monitored,
		TransactionType: transactionType,
		Protocol:        IdentifyProtocol(tx),
		TokenAmount:     math.Abs(tokenChange),
		QuoteAmount:     math.Abs(quoteChange),
	}

	if err := p.sink.InsertTransaction(record); err != nil {
		logrus.Errorf("Failed to store transaction %s: %v", shortSig(item.Signature), err)
		return
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(p.eventQueue, record); err != nil {
			logrus.Warnf("Failed to publish transaction %s: %v", shortSig(item.Signature), err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"signature":    shortSig(item.Signature),
		"type":         transactionType,
		"wallet":       shortAddr(monitored),
		"protocol":     record.Protocol,
		"token_amount": record.TokenAmount,
		"quote_amount": record.QuoteAmount,
		"priority":     item.Priority,
	}).Info("Transaction stored")
}

// Run processes on the given tick until ctx is canceled.
func (p *Processor) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ProcessNext(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// balanceDelta is the owner's post minus pre balance of mint.
func balanceDelta(tx *solana.ParsedTransaction, mint, owner string) float64 {
	pre, preOK := findBalance(tx.PreTokenBalances, mint, owner)
	post, postOK := findBalance(tx.PostTokenBalances, mint, owner)
	if !preOK && !postOK {
		return 0
	}
	return post - pre
}

func findBalance(balances []solana.TokenBalanceChange, mint, owner string) (float64, bool) {
	for _, b := range balances {
		if b.Mint == mint && b.Owner == owner {
			return b.UIAmount, true
		}
	}
	return 0, false
}

func shortSig(signature string) string {
	if len(signature) <= 10 {
		return signature
	}
	return signature[:10] + "..."
}
