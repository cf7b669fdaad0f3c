package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// networkEntries is the ledger section of one network
type networkEntries struct {
	Deployments   []*models.DeploymentRecord   `json:"deployments"`
	Verifications []*models.VerificationResult `json:"verifications"`
}

// FileLedger stores deployments and verification outcomes in a single JSON
// file keyed by network id. Entries are only ever appended.
type FileLedger struct {
	path string
	log  *slog.Logger
	mu   sync.RWMutex
	data map[string]*networkEntries
}

// NewFileLedger opens the ledger at cfg.LedgerPath, creating nothing until
// the first append
func NewFileLedger(cfg *config.RuntimeConfig, log *slog.Logger) (*FileLedger, error) {
	l := &FileLedger{
		path: cfg.LedgerPath,
		log:  log.With("component", "Ledger"),
		data: make(map[string]*networkEntries),
	}

	if err := l.load(); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return l, nil
}

func (l *FileLedger) load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &l.data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", l.path, err)
	}
	for id, entries := range l.data {
		if entries == nil {
			l.data[id] = &networkEntries{}
		}
	}
	return nil
}

// save writes the whole ledger. Caller holds the write lock.
func (l *FileLedger) save() error {
	data, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil { //nolint:gosec // ledger is not secret
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, l.path)
}

func (l *FileLedger) entries(networkID string) *networkEntries {
	key := strings.ToLower(networkID)
	entries, ok := l.data[key]
	if !ok {
		entries = &networkEntries{}
		l.data[key] = entries
	}
	return entries
}

// AppendDeployment appends a confirmed deployment and persists the ledger
func (l *FileLedger) AppendDeployment(ctx context.Context, record *models.DeploymentRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries(record.NetworkID)
	clone := *record
	entries.Deployments = append(entries.Deployments, &clone)

	if err := l.save(); err != nil {
		entries.Deployments = entries.Deployments[:len(entries.Deployments)-1]
		return fmt.Errorf("failed to write ledger %s: %w", l.path, err)
	}

	l.log.DebugContext(ctx, "deployment recorded", "network", record.NetworkID, "address", record.ContractAddress)
	return nil
}

// FindDeployment returns the latest deployment at address on networkID
func (l *FileLedger) FindDeployment(ctx context.Context, networkID, address string) (*models.DeploymentRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries, ok := l.data[strings.ToLower(networkID)]
	if ok {
		for i := len(entries.Deployments) - 1; i >= 0; i-- {
			dep := entries.Deployments[i]
			if strings.EqualFold(dep.ContractAddress, address) {
				clone := *dep
				return &clone, nil
			}
		}
	}

	return nil, fmt.Errorf("deployment at %s on %s: %w", address, networkID, domain.ErrNotFound)
}

// ListDeployments returns deployments matching filter ordered by network,
// then deployment time
func (l *FileLedger) ListDeployments(ctx context.Context, filter usecase.DeploymentFilter) ([]*models.DeploymentRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*models.DeploymentRecord
	for networkID, entries := range l.data {
		if filter.NetworkID != "" && !strings.EqualFold(filter.NetworkID, networkID) {
			continue
		}
		for _, dep := range entries.Deployments {
			if filter.ContractName != "" && dep.ContractName != filter.ContractName {
				continue
			}
			if filter.Variant != "" && dep.Variant != filter.Variant {
				continue
			}
			clone := *dep
			result = append(result, &clone)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].NetworkID != result[j].NetworkID {
			return result[i].NetworkID < result[j].NetworkID
		}
		return result[i].DeployedAt.Before(result[j].DeployedAt)
	})

	return result, nil
}

// AppendVerification appends a verification outcome for a deployment on
// networkID and persists the ledger
func (l *FileLedger) AppendVerification(ctx context.Context, networkID string, result *models.VerificationResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries(networkID)
	clone := *result
	entries.Verifications = append(entries.Verifications, &clone)

	if err := l.save(); err != nil {
		entries.Verifications = entries.Verifications[:len(entries.Verifications)-1]
		return fmt.Errorf("failed to write ledger %s: %w", l.path, err)
	}

	l.log.DebugContext(ctx, "verification recorded", "network", networkID, "address", result.Address, "status", result.Status)
	return nil
}

// LatestVerification returns the most recent verification outcome for
// address on networkID
func (l *FileLedger) LatestVerification(ctx context.Context, networkID, address string) (*models.VerificationResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if entries, ok := l.data[strings.ToLower(networkID)]; ok {
		latest, _, found := lo.FindLastIndexOf(entries.Verifications, func(v *models.VerificationResult) bool {
			return strings.EqualFold(v.Address, address)
		})
		if found {
			clone := *latest
			return &clone, nil
		}
	}

	return nil, fmt.Errorf("verification of %s on %s: %w", address, networkID, domain.ErrNotFound)
}

var _ usecase.Ledger = (*FileLedger)(nil)
