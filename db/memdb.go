// Package db
package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// memDB is a Client kept entirely in process memory. It backs unit tests
// and local development where no MongoDB is reachable, with the same
// conditional-update semantics as the mongo adapter.
type memDB struct {
	logger *zap.Logger

	mu            sync.RWMutex
	counters      map[string]uint64
	proposals     map[uint64]*types.Proposal
	voteLedger    map[string]*types.VoteLedgerEntry
	reputation    map[string]*types.ReputationRecord
	timelocks     map[uint64]*types.TimelockEntry
	beneficiaries map[string]*types.Beneficiary
	proofs        map[uint64]*types.ProofSubmission
	balances      map[string]uint64
	treasury      *types.TreasuryState
	events        []*types.Event
}

func newMemDB(cfg Config) (*memDB, error) {
	return &memDB{
		logger:        cfg.Logger,
		counters:      make(map[string]uint64),
		proposals:     make(map[uint64]*types.Proposal),
		voteLedger:    make(map[string]*types.VoteLedgerEntry),
		reputation:    make(map[string]*types.ReputationRecord),
		timelocks:     make(map[uint64]*types.TimelockEntry),
		beneficiaries: make(map[string]*types.Beneficiary),
		proofs:        make(map[uint64]*types.ProofSubmission),
		balances:      make(map[string]uint64),
	}, nil
}

func (m *memDB) ping() error { return nil }

func (m *memDB) dropDatabase(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]uint64)
	m.proposals = make(map[uint64]*types.Proposal)
	m.voteLedger = make(map[string]*types.VoteLedgerEntry)
	m.reputation = make(map[string]*types.ReputationRecord)
	m.timelocks = make(map[uint64]*types.TimelockEntry)
	m.beneficiaries = make(map[string]*types.Beneficiary)
	m.proofs = make(map[uint64]*types.ProofSubmission)
	m.balances = make(map[string]uint64)
	m.treasury = nil
	m.events = nil
	return nil
}

func (m *memDB) next(name string) uint64 {
	m.counters[name]++
	return m.counters[name]
}

func copyProposal(p *types.Proposal) *types.Proposal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Milestones = make([]*types.Milestone, len(p.Milestones))
	for i, ms := range p.Milestones {
		msCopy := *ms
		cp.Milestones[i] = &msCopy
	}
	return &cp
}

// Proposals

func (m *memDB) NextProposalID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next("proposal"), nil
}

func (m *memDB) InsertProposal(ctx context.Context, p *types.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.ID] = copyProposal(p)
	return nil
}

func (m *memDB) ProposalByID(ctx context.Context, id uint64) (*types.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, types.ErrProposalNotFound
	}
	return copyProposal(p), nil
}

func (m *memDB) UpdateProposal(ctx context.Context, p *types.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.ID] = copyProposal(p)
	return nil
}

func (m *memDB) ActiveProposals(ctx context.Context, pagination *types.Pagination) ([]*types.Proposal, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var active []*types.Proposal
	for _, p := range m.proposals {
		if p.Valid {
			active = append(active, copyProposal(p))
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	total := uint64(len(active))
	if pagination != nil {
		if pagination.Skip >= len(active) {
			return nil, total, nil
		}
		active = active[pagination.Skip:]
		if pagination.Limit > 0 && pagination.Limit < len(active) {
			active = active[:pagination.Limit]
		}
	}
	return active, total, nil
}

// Vote ledger

func ledgerKey(voter string, proposalID uint64) string {
	return fmt.Sprintf("%s#%d", voter, proposalID)
}

func (m *memDB) VoteLedgerEntry(ctx context.Context, voter string, proposalID uint64) (*types.VoteLedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.voteLedger[ledgerKey(voter, proposalID)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (m *memDB) UpsertVoteLedgerEntry(ctx context.Context, entry *types.VoteLedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.voteLedger[ledgerKey(entry.Voter, entry.ProposalID)] = &cp
	return nil
}

// Reputation

func (m *memDB) ReputationRecord(ctx context.Context, voter string) (*types.ReputationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.reputation[voter]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}

func (m *memDB) UpsertReputationRecord(ctx context.Context, record *types.ReputationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.reputation[record.Voter] = &cp
	return nil
}

// Timelocks

func (m *memDB) NextTimelockID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next("timelock"), nil
}

func (m *memDB) InsertTimelock(ctx context.Context, entry *types.TimelockEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.timelocks[entry.ID] = &cp
	return nil
}

func (m *memDB) TimelockByID(ctx context.Context, id uint64) (*types.TimelockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.timelocks[id]
	if !ok {
		return nil, types.ErrTimelockNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *memDB) MarkTimelockExecuted(ctx context.Context, id uint64, executedTime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.timelocks[id]
	if !ok {
		return types.ErrTimelockNotFound
	}
	if entry.Executed {
		return types.ErrAlreadyExecuted
	}
	entry.Executed = true
	entry.ExecutedTime = executedTime
	return nil
}

func (m *memDB) DueTimelocks(ctx context.Context, now int64) ([]*types.TimelockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*types.TimelockEntry
	for _, entry := range m.timelocks {
		if !entry.Executed && entry.Eta <= now {
			cp := *entry
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Eta < due[j].Eta })
	return due, nil
}

func (m *memDB) ListTimelocks(ctx context.Context, pagination *types.Pagination) ([]*types.TimelockEntry, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*types.TimelockEntry
	for _, entry := range m.timelocks {
		cp := *entry
		entries = append(entries, &cp)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	total := uint64(len(entries))
	if pagination != nil {
		if pagination.Skip >= len(entries) {
			return nil, total, nil
		}
		entries = entries[pagination.Skip:]
		if pagination.Limit > 0 && pagination.Limit < len(entries) {
			entries = entries[:pagination.Limit]
		}
	}
	return entries, total, nil
}

// Beneficiaries

func (m *memDB) Beneficiary(ctx context.Context, address string) (*types.Beneficiary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.beneficiaries[address]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memDB) UpsertBeneficiary(ctx context.Context, b *types.Beneficiary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.beneficiaries[b.Address] = &cp
	return nil
}

// Proofs

func (m *memDB) NextSubmissionID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next("proof"), nil
}

func (m *memDB) InsertProofSubmission(ctx context.Context, s *types.ProofSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.proofs[s.ID] = &cp
	return nil
}

func (m *memDB) ProofSubmissionByID(ctx context.Context, id uint64) (*types.ProofSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.proofs[id]
	if !ok {
		return nil, types.ErrSubmissionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memDB) SettleProofSubmission(ctx context.Context, s *types.ProofSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.proofs[s.ID]
	if !ok {
		return types.ErrSubmissionNotFound
	}
	if stored.Status != types.ProofPending {
		return types.ErrAlreadyProcessed
	}
	cp := *s
	m.proofs[s.ID] = &cp
	return nil
}

func (m *memDB) ApprovedSubmissionExists(ctx context.Context, proposalID uint64, milestoneIndex int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.proofs {
		if s.ProposalID == proposalID && s.MilestoneIndex == milestoneIndex && s.Status == types.ProofApproved {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) ProofSubmissionsByProposal(ctx context.Context, proposalID uint64, pagination *types.Pagination) ([]*types.ProofSubmission, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var submissions []*types.ProofSubmission
	for _, s := range m.proofs {
		if s.ProposalID == proposalID {
			cp := *s
			submissions = append(submissions, &cp)
		}
	}
	sort.Slice(submissions, func(i, j int) bool { return submissions[i].ID > submissions[j].ID })
	total := uint64(len(submissions))
	if pagination != nil {
		if pagination.Skip >= len(submissions) {
			return nil, total, nil
		}
		submissions = submissions[pagination.Skip:]
		if pagination.Limit > 0 && pagination.Limit < len(submissions) {
			submissions = submissions[:pagination.Limit]
		}
	}
	return submissions, total, nil
}

// Balances

func (m *memDB) Balance(ctx context.Context, address string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[address], nil
}

func (m *memDB) AddBalance(ctx context.Context, address string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[address] += amount
	return nil
}

func (m *memDB) SubBalance(ctx context.Context, address string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[address] < amount {
		return types.ErrInsufficientCredits
	}
	m.balances[address] -= amount
	return nil
}

// Treasury

func (m *memDB) TreasuryState(ctx context.Context, defaultMintRate uint64) (*types.TreasuryState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.treasury == nil {
		m.treasury = &types.TreasuryState{MintRate: defaultMintRate}
	}
	cp := *m.treasury
	return &cp, nil
}

func (m *memDB) UpdateTreasuryState(ctx context.Context, state *types.TreasuryState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.treasury = &cp
	return nil
}

// Events

func (m *memDB) InsertEvent(ctx context.Context, event *types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *memDB) ListEvents(ctx context.Context, eventType string, proposalID uint64, pagination *types.Pagination) ([]*types.Event, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*types.Event
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if eventType != "" && e.Type != eventType {
			continue
		}
		if proposalID != 0 && e.ProposalID != proposalID {
			continue
		}
		cp := *e
		events = append(events, &cp)
	}
	total := uint64(len(events))
	if pagination != nil {
		if pagination.Skip >= len(events) {
			return nil, total, nil
		}
		events = events[pagination.Skip:]
		if pagination.Limit > 0 && pagination.Limit < len(events) {
			events = events[:pagination.Limit]
		}
	}
	return events, total, nil
}
