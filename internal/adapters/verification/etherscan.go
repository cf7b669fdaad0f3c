package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
	"golang.org/x/time/rate"
)

// Etherscan allows 5 calls per second on the free tier
const defaultRequestsPerSecond = 5

// EtherscanVerifier verifies contracts through an Etherscan-compatible API
// using the solc standard-json input from the hardhat build info
type EtherscanVerifier struct {
	client       *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	log          *slog.Logger
}

// NewEtherscanVerifier creates a verifier that polls every pollInterval
func NewEtherscanVerifier(pollInterval time.Duration, log *slog.Logger) *EtherscanVerifier {
	return &EtherscanVerifier{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:      rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		pollInterval: pollInterval,
		log:          log.With("component", "EtherscanVerifier"),
	}
}

// Name returns the backend name recorded in the ledger
func (v *EtherscanVerifier) Name() string {
	return string(config.VerifyBackendEtherscan)
}

// Verify submits the source and waits until the explorer reports a final
// status or ctx ends
func (v *EtherscanVerifier) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	network := req.Network
	if network.ExplorerAPIURL == "" {
		return nil, fmt.Errorf("no explorer API URL configured for network %s", network.Name)
	}
	if network.ExplorerAPIKey == "" {
		return nil, fmt.Errorf("no explorer API key configured for network %s (set explorer_key or ETHERSCAN_API_KEY)", network.Name)
	}
	if len(req.Artifact.StandardJSONInput) == 0 {
		return nil, fmt.Errorf("no build info for %s, recompile with `npx hardhat compile --force`", req.Artifact.ContractName)
	}

	result := &models.VerificationResult{
		Address:     req.Address,
		Backend:     v.Name(),
		ExplorerURL: explorerAddressURL(network, req.Address),
	}

	submitted, err := v.submit(ctx, req)
	if err != nil {
		return nil, err
	}
	if submitted.Status != "1" {
		if isAlreadyVerified(submitted.Result) {
			result.Status = models.VerificationStatusAlreadyVerified
			return result, nil
		}
		result.Status = models.VerificationStatusFailed
		result.Reason = submitted.Result
		return result, nil
	}

	result.GUID = submitted.Result
	v.log.InfoContext(ctx, "verification submitted", "network", network.Name, "address", req.Address, "guid", result.GUID)

	for {
		timer := time.NewTimer(v.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("waiting for verification %s: %w", result.GUID, ctx.Err())
		case <-timer.C:
		}

		status, err := v.checkStatus(ctx, network, result.GUID)
		if err != nil {
			return nil, err
		}

		switch {
		case isPending(status.Result):
			v.log.DebugContext(ctx, "verification pending", "guid", result.GUID, "result", status.Result)
			continue
		case isAlreadyVerified(status.Result):
			result.Status = models.VerificationStatusAlreadyVerified
		case status.Status == "1":
			result.Status = models.VerificationStatusVerified
		default:
			result.Status = models.VerificationStatusFailed
			result.Reason = status.Result
		}
		return result, nil
	}
}

// submit posts verifysourcecode
func (v *EtherscanVerifier) submit(ctx context.Context, req *models.VerificationRequest) (*etherscanResponse, error) {
	artifact := req.Artifact

	data := url.Values{}
	data.Set("apikey", req.Network.ExplorerAPIKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("contractaddress", req.Address)
	data.Set("sourceCode", string(artifact.StandardJSONInput))
	data.Set("codeformat", "solidity-standard-json-input")
	data.Set("contractname", artifact.FullyQualifiedName())
	data.Set("compilerversion", compilerVersion(artifact.CompilerVersion))
	data.Set("optimizationUsed", boolToString(artifact.OptimizerEnabled))
	if artifact.OptimizerEnabled {
		data.Set("runs", strconv.Itoa(artifact.OptimizerRuns))
	}
	if req.EncodedArgs != "" {
		data.Set("constructorArguements", req.EncodedArgs) // Note: Etherscan typo
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL(req.Network, nil), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit verification: %w", err)
	}
	return resp, nil
}

// checkStatus queries checkverifystatus for guid
func (v *EtherscanVerifier) checkStatus(ctx context.Context, network *config.Network, guid string) (*etherscanResponse, error) {
	params := url.Values{}
	params.Set("apikey", network.ExplorerAPIKey)
	params.Set("module", "contract")
	params.Set("action", "checkverifystatus")
	params.Set("guid", guid)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL(network, params), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to check status: %w", err)
	}
	return resp, nil
}

func (v *EtherscanVerifier) do(req *http.Request) (*etherscanResponse, error) {
	ctx := req.Context()
	if err := v.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// the limiter refuses waits that would outlive the deadline
		return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}

	resp, err := v.client.Do(req) //nolint:gosec // URL is constructed from configured explorer endpoint
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("explorer API returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// apiURL adds chainid, which the multichain Etherscan API requires and other
// explorers ignore
func apiURL(network *config.Network, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if network.ChainID != 0 {
		params.Set("chainid", strconv.FormatUint(network.ChainID, 10))
	}

	base := network.ExplorerAPIURL
	if len(params) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

func explorerAddressURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", network.ExplorerURL, address)
}

// compilerVersion formats the solc long version the way Etherscan expects
func compilerVersion(long string) string {
	if long == "" || strings.HasPrefix(long, "v") {
		return long
	}
	return "v" + long
}

func isPending(result string) bool {
	return strings.Contains(strings.ToLower(result), "pending")
}

func isAlreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// boolToString converts bool to "0" or "1" for Etherscan API
func boolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
