// Package broker wires the divisions, the internal network and the
// classifier into one aggregate. The broker owns the round loop and is
// the single writer for all division and graph state.
package broker

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/classify"
	"github.com/dyike/BrokerGo/internal/departments"
	"github.com/dyike/BrokerGo/internal/departments/banking"
	"github.com/dyike/BrokerGo/internal/departments/trading"
	"github.com/dyike/BrokerGo/internal/models"
	"github.com/dyike/BrokerGo/internal/network"
	"github.com/dyike/BrokerGo/internal/storage"
)

type Broker struct {
	mu sync.Mutex

	id          string
	name        string
	description string

	registry    *departments.Registry
	net         *network.Graph
	classifier  classify.Strategy
	coordinator string

	trading *trading.SalesTrading
	banking *banking.InvestmentBanking

	balance          decimal.Decimal
	transactions     []Transaction
	regulatoryStatus string

	journal *storage.Store
	logger  *zap.Logger
}

// Transaction is one entry in the append-only funds history.
type Transaction struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

type Option func(*Broker)

func WithDescription(desc string) Option {
	return func(b *Broker) { b.description = desc }
}

func WithClassifier(s classify.Strategy) Option {
	return func(b *Broker) { b.classifier = s }
}

func WithCoordinator(id string) Option {
	return func(b *Broker) { b.coordinator = id }
}

func WithInitialBalance(balance decimal.Decimal) Option {
	return func(b *Broker) { b.balance = balance }
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Broker) { b.logger = logger }
}

// WithJournal persists executed orders and internal communications.
func WithJournal(store *storage.Store) Option {
	return func(b *Broker) { b.journal = store }
}

// New builds a broker with the standard seven-division roster and the
// standard internal network wiring.
func New(name string, opts ...Option) (*Broker, error) {
	b := &Broker{
		id:               uuid.New().String(),
		name:             name,
		registry:         departments.NewRegistry(),
		net:              network.NewGraph(),
		coordinator:      consts.Executive,
		balance:          decimal.NewFromInt(1_000_000_000),
		regulatoryStatus: "compliant",
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.classifier == nil {
		b.classifier = classify.NewDefaultStrategy()
	}
	b.logger = b.logger.Named("broker")

	b.trading = trading.New(b.logger)
	b.banking = banking.New(b.logger)

	if err := b.buildRoster(); err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}
	b.buildNetwork()
	return b, nil
}

func (b *Broker) buildRoster() error {
	roster := []*departments.Department{
		departments.New(consts.InvestmentBanking, consts.Division_InvestmentBanking,
			departments.WithDescription("equity and debt underwriting, M&A advisory"),
			departments.WithRiskTolerance(0.4),
			departments.WithExpertise("IPO", "bond issuance", "M&A", "financing advisory"),
			departments.WithHandler(b.banking),
			departments.WithViewpoint(b.banking.Viewpoint),
			departments.WithLogger(b.logger)),
		departments.New(consts.SalesTrading, consts.Division_SalesTrading,
			departments.WithDescription("securities trading, market making and order execution"),
			departments.WithRiskTolerance(0.7),
			departments.WithExpertise("equities trading", "fixed income trading", "derivatives", "market making"),
			departments.WithHandler(b.trading),
			departments.WithAdmission(b.trading.Admission),
			departments.WithViewpoint(b.trading.Viewpoint),
			departments.WithLogger(b.logger)),
		departments.New(consts.Research, consts.Division_Research,
			departments.WithDescription("market research, industry analysis and investment advice"),
			departments.WithRiskTolerance(0.3),
			departments.WithExpertise("macro analysis", "industry research", "company research", "investment strategy"),
			departments.WithHandler(departments.ResearchHandler{}),
			departments.WithLogger(b.logger)),
		departments.New(consts.WealthManagement, consts.Division_WealthManagement,
			departments.WithDescription("asset management for private and retail clients"),
			departments.WithRiskTolerance(0.4),
			departments.WithExpertise("asset allocation", "portfolio management", "financial planning", "client relationships"),
			departments.WithLogger(b.logger)),
		departments.New(consts.AssetManagement, consts.Division_AssetManagement,
			departments.WithDescription("fund products and institutional asset management"),
			departments.WithRiskTolerance(0.5),
			departments.WithExpertise("fund management", "asset allocation", "investment strategy", "performance analysis"),
			departments.WithLogger(b.logger)),
		departments.New(consts.RiskCompliance, consts.Division_RiskCompliance,
			departments.WithDescription("risk management and compliance oversight"),
			departments.WithRiskTolerance(0.1),
			departments.WithExpertise("risk management", "compliance oversight", "internal audit", "regulatory relations"),
			departments.WithHandler(departments.ComplianceHandler{}),
			departments.WithLogger(b.logger)),
		departments.New(consts.Executive, consts.Division_Executive,
			departments.WithDescription("strategic decisions and cross-division coordination"),
			departments.WithRiskTolerance(0.5),
			departments.WithExpertise("strategic planning", "coordination", "decision management", "external relations"),
			departments.WithHandler(departments.CoordinatorHandler{}),
			departments.WithLogger(b.logger)),
	}
	for _, d := range roster {
		if err := b.registry.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// buildNetwork lays the standard communication channels: the executive
// committee is the hub, risk & compliance reaches every business
// division, research feeds the investing divisions, and two bilateral
// working relationships round it out.
func (b *Broker) buildNetwork() {
	for _, id := range b.registry.IDs() {
		d, _ := b.registry.Get(id)
		b.net.AddNode(id, network.NodeAttrs{
			Name:          d.Name,
			RiskTolerance: d.RiskTolerance,
			Expertise:     d.Expertise,
		})
	}

	for _, id := range b.registry.IDs() {
		if id != consts.Executive {
			b.net.AddEdge(consts.Executive, id, 1.0, 1.0, true)
		}
	}
	for _, id := range b.registry.IDs() {
		if id != consts.Executive && id != consts.RiskCompliance {
			b.net.AddEdge(consts.RiskCompliance, id, 0.8, 0.9, true)
		}
	}
	for _, id := range []string{consts.SalesTrading, consts.AssetManagement, consts.WealthManagement} {
		b.net.AddEdge(consts.Research, id, 0.9, 0.8, true)
	}
	b.net.AddEdge(consts.InvestmentBanking, consts.SalesTrading, 0.7, 0.7, true)
	b.net.AddEdge(consts.WealthManagement, consts.AssetManagement, 0.8, 0.7, true)
}

func (b *Broker) ID() string   { return b.id }
func (b *Broker) Name() string { return b.name }

// Network exposes the internal graph for read-only inspection.
func (b *Broker) Network() *network.Graph { return b.net }

// Registry exposes the division roster.
func (b *Broker) Registry() *departments.Registry { return b.registry }

// Trading and Banking expose the specialised divisions.
func (b *Broker) Trading() *trading.SalesTrading      { return b.trading }
func (b *Broker) Banking() *banking.InvestmentBanking { return b.banking }

// SubmitMessage classifies an inbound message, fans the work out to the
// selected divisions, runs their queues and aggregates one reply.
func (b *Broker) SubmitMessage(text string, metadata map[string]any) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	targets := b.classifier.Classify(text)
	b.logger.Info("message classified",
		zap.String("preview", preview(text)),
		zap.Strings("targets", targets))

	responses := make(map[string]*models.Result, len(targets))
	for _, id := range targets {
		d, err := b.registry.Get(id)
		if err != nil {
			continue
		}
		task := models.NewTask(consts.TaskMessageProcessing, map[string]any{
			"content":  text,
			"metadata": metadata,
		})
		d.AddTask(task)
		for _, result := range d.ProcessAll() {
			if result.TaskID == task.ID {
				responses[id] = result
			}
		}
	}

	return b.aggregate(targets, responses)
}

// SubmitTask enqueues a structured task directly on a known division,
// bypassing classification. The task runs on the next round.
func (b *Broker) SubmitTask(departmentID string, task *models.Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.registry.Get(departmentID)
	if err != nil {
		return err
	}
	d.AddTask(task)
	return nil
}

// RunRound executes one internal communication round: every division
// drains its queue once, in registration order, then outbound internal
// messages are delivered and logged on the network. Messages sent
// during this round are consumed by handlers in the next one.
func (b *Broker) RunRound() map[string][]*models.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runRound()
}

func (b *Broker) runRound() map[string][]*models.Result {
	results := make(map[string][]*models.Result)
	for _, id := range b.registry.IDs() {
		d, _ := b.registry.Get(id)
		if out := d.ProcessAll(); len(out) > 0 {
			results[id] = out
		}
		d.ClearInbox()
	}

	for _, id := range b.registry.IDs() {
		d, _ := b.registry.Get(id)
		for _, msg := range d.DrainOutbox() {
			b.deliver(msg)
		}
	}
	return results
}

// deliver routes one internal message. An empty target list fans out to
// every division connected to the sender.
func (b *Broker) deliver(msg models.InternalMessage) {
	targets := msg.Targets
	if len(targets) == 0 {
		for _, n := range b.net.Neighbors(msg.Sender) {
			targets = append(targets, n.ID)
		}
	}
	for _, id := range targets {
		d, err := b.registry.Get(id)
		if err != nil {
			continue
		}
		d.ReceiveInternalMessage(msg)
		b.net.RecordCommunication(msg.Sender, id, msg.Content)
		if b.journal != nil {
			if err := b.journal.SaveCommunication(msg.Sender, id, msg.Content); err != nil {
				b.logger.Warn("journal write failed", zap.Error(err))
			}
		}
	}
}

// TransferFunds moves funds to another broker. Expected failures
// (non-positive amount, insufficient balance) come back as errors and
// leave both balances untouched. Both brokers' mutexes are taken, in id
// order, so opposing concurrent transfers cannot deadlock.
func (b *Broker) TransferFunds(recipient *Broker, amount decimal.Decimal, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("transfer amount must be positive")
	}

	first, second := b, recipient
	if recipient.id < b.id {
		first, second = recipient, b
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	if second != first {
		second.mu.Lock()
		defer second.mu.Unlock()
	}

	if b.balance.LessThan(amount) {
		return Transaction{}, fmt.Errorf("insufficient balance")
	}

	b.balance = b.balance.Sub(amount)
	recipient.balance = recipient.balance.Add(amount)

	txn := Transaction{
		From:        b.id,
		To:          recipient.id,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now(),
	}
	b.transactions = append(b.transactions, txn)
	if recipient != b {
		recipient.transactions = append(recipient.transactions, txn)
	}
	return txn, nil
}

// Balance returns the current funds balance.
func (b *Broker) Balance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// Transactions returns the funds history.
func (b *Broker) Transactions() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}

// Info is the broker-level snapshot handed to reporting and export
// consumers.
type Info struct {
	ID               string                              `json:"id"`
	Name             string                              `json:"name"`
	Description      string                              `json:"description,omitempty"`
	Balance          decimal.Decimal                     `json:"balance"`
	RegulatoryStatus string                              `json:"regulatory_status"`
	Divisions        map[string]departments.StatusReport `json:"divisions"`
	TradingDesk      trading.Status                      `json:"trading_desk"`
	BankingBook      banking.Status                      `json:"banking_book"`
	Network          network.Snapshot                    `json:"network"`
}

func (b *Broker) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	divisions := make(map[string]departments.StatusReport, b.registry.Len())
	for _, id := range b.registry.IDs() {
		d, _ := b.registry.Get(id)
		divisions[id] = d.Status()
	}
	return Info{
		ID:               b.id,
		Name:             b.name,
		Description:      b.description,
		Balance:          b.balance,
		RegulatoryStatus: b.regulatoryStatus,
		Divisions:        divisions,
		TradingDesk:      b.trading.Status(),
		BankingBook:      b.banking.Status(),
		Network:          b.net.Snapshot(),
	}
}

func preview(text string) string {
	const max = 100
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
