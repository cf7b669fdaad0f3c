package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// hardhatArtifact is <Name>.json under the hardhat artifacts tree
type hardhatArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// debugFile is <Name>.dbg.json, pointing at the build info
type debugFile struct {
	BuildInfo string `json:"buildInfo"`
}

// buildInfo is build-info/<id>.json; output is not decoded
type buildInfo struct {
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}

type solcInput struct {
	Settings struct {
		Optimizer struct {
			Enabled bool `json:"enabled"`
			Runs    int  `json:"runs"`
		} `json:"optimizer"`
	} `json:"settings"`
}

// Loader reads hardhat artifacts and their build info
type Loader struct {
	projectRoot string
	compiler    config.CompilerConfig
	log         *slog.Logger
	mu          sync.Mutex
	cache       map[string]*models.Artifact // key: absolute artifact path
}

// NewLoader creates a loader rooted at the project directory
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		projectRoot: cfg.ProjectRoot,
		compiler:    cfg.Compiler,
		log:         log.With("component", "ArtifactLoader"),
		cache:       make(map[string]*models.Artifact),
	}
}

// Load returns the artifact at ref.Path, relative to the project root
func (l *Loader) Load(ctx context.Context, ref models.ArtifactRef) (*models.Artifact, error) {
	path := ref.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.projectRoot, path)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if artifact, ok := l.cache[path]; ok {
		return artifact, nil
	}

	artifact, err := l.load(ctx, path)
	if err != nil {
		return nil, err
	}
	if ref.SourceName != "" && artifact.SourceName != ref.SourceName {
		return nil, fmt.Errorf("artifact %s was compiled from %s, expected %s", ref.Path, artifact.SourceName, ref.SourceName)
	}

	l.cache[path] = artifact
	return artifact, nil
}

func (l *Loader) load(ctx context.Context, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from project config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s not found (run `npx hardhat compile`)", path)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	if strings.Contains(raw.Bytecode, "__$") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", path)
	}
	bytecode, err := hexutil.Decode(raw.Bytecode)
	if err != nil || len(bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", path)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI in %s: %w", path, err)
	}

	artifact := &models.Artifact{
		ContractName: raw.ContractName,
		SourceName:   raw.SourceName,
		ABI:          parsedABI,
		Bytecode:     bytecode,
	}

	if err := l.attachBuildInfo(ctx, path, artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}

// attachBuildInfo follows <Name>.dbg.json to the solc build info. Artifacts
// without one can still be deployed but not verified through the API.
func (l *Loader) attachBuildInfo(ctx context.Context, artifactPath string, artifact *models.Artifact) error {
	dbgPath := strings.TrimSuffix(artifactPath, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath) //nolint:gosec // sibling of the artifact
	if err != nil {
		if os.IsNotExist(err) {
			l.log.WarnContext(ctx, "no build info for artifact", "artifact", artifactPath)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dbgPath, err)
	}

	var dbg debugFile
	if err := json.Unmarshal(data, &dbg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil
	}

	infoPath := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	data, err = os.ReadFile(infoPath) //nolint:gosec // referenced by the debug file
	if err != nil {
		return fmt.Errorf("failed to read build info: %w", err)
	}

	var info buildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fmt.Errorf("failed to parse build info %s: %w", infoPath, err)
	}

	var input solcInput
	if err := json.Unmarshal(info.Input, &input); err != nil {
		return fmt.Errorf("failed to parse compiler input in %s: %w", infoPath, err)
	}

	artifact.CompilerVersion = info.SolcLongVersion
	artifact.StandardJSONInput = info.Input
	artifact.OptimizerEnabled = input.Settings.Optimizer.Enabled
	artifact.OptimizerRuns = input.Settings.Optimizer.Runs

	l.checkCompilerSettings(ctx, info.SolcVersion, artifact)
	return nil
}

func (l *Loader) checkCompilerSettings(ctx context.Context, solcVersion string, artifact *models.Artifact) {
	if l.compiler.Version != "" && solcVersion != "" && solcVersion != l.compiler.Version {
		l.log.WarnContext(ctx, "artifact compiled with a different solc version",
			"contract", artifact.ContractName, "configured", l.compiler.Version, "artifact", solcVersion)
	}
	if artifact.OptimizerEnabled != l.compiler.Optimizer ||
		(l.compiler.Optimizer && artifact.OptimizerRuns != l.compiler.Runs) {
		l.log.WarnContext(ctx, "artifact compiled with different optimizer settings",
			"contract", artifact.ContractName,
			"configured", fmt.Sprintf("enabled=%t runs=%d", l.compiler.Optimizer, l.compiler.Runs),
			"artifact", fmt.Sprintf("enabled=%t runs=%d", artifact.OptimizerEnabled, artifact.OptimizerRuns))
	}
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
