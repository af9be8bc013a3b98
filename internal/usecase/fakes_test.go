package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

const (
	testAsset    = "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC"
	testDeployed = "CCJZ5DGASBWQXR5MPFCJXMBI333XE5U3FSJTNQU7RIKE3P5GN2K2WYD5"
	testPool     = "CAS3FL6TLZKDGGSISDBWGGPXT3NRR4DYTZD7YOD3HMYO6LTJUVGRVEAM"
	testBlnd     = "CB22KRA3YZVCNCQI64JQ5WE7UY2VAV7WFLK6A2JN3HEX56T2EDAFO7QF"
	testAccount  = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
	testWasmHash = "5d41402abc4b2a76b9719d911017c592aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func newTestConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		RunID: "test-run",
		Network: &config.Network{
			Name:         domain.Testnet,
			Passphrase:   "Test SDF Network ; September 2015",
			RPCURL:       "http://rpc.invalid",
			FriendbotURL: "http://friendbot.invalid",
			Admin:        config.Signer{Name: "admin", Source: "alice"},
			Signers: map[string]config.Signer{
				"treasury": {Name: "treasury", Source: "bob"},
			},
			External: map[string]string{"blend": "/blend/testnet.contracts.json"},
			Assets:   map[string]string{"usdc": "soroswap_usdc", "xlm": "xlm"},
			Strategies: config.StrategyConfig{
				FixedAprBps:   1000,
				BlendRegistry: "blend",
				BlendPoolKey:  "TestnetV2",
				BlendTokenKey: "BLND",
			},
		},
		Lifecycle: config.LifecycleConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
			PollInterval:   time.Millisecond,
			PollTimeout:    30 * time.Millisecond,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeArtifacts serves artifacts by name
type fakeArtifacts struct {
	artifacts map[string]*models.Artifact
	calls     int
}

func newFakeArtifacts(names ...string) *fakeArtifacts {
	f := &fakeArtifacts{artifacts: make(map[string]*models.Artifact)}
	for _, name := range names {
		f.artifacts[name] = &models.Artifact{Name: name, Path: name + ".wasm", Hash: hashFor(name), Size: 1024}
	}
	return f
}

func hashFor(name string) string {
	return fmt.Sprintf("%064x", len(name)*7919+int(name[0]))
}

func (f *fakeArtifacts) Resolve(ctx context.Context, name string) (*models.Artifact, error) {
	f.calls++
	artifact, ok := f.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.wasm does not exist", domain.ErrFile, name)
	}
	return artifact, nil
}

// fakeTxs builds envelopes as readable strings
type fakeTxs struct {
	mu      sync.Mutex
	uploads []string
	creates []string
	invokes []string
	signers []string
	lastArg []domain.Arg
	decode  func(xdr string) (json.RawMessage, error)
}

func (f *fakeTxs) BuildUpload(ctx context.Context, artifact *models.Artifact, signer config.Signer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, artifact.Name)
	f.signers = append(f.signers, signer.Name)
	return "upload:" + artifact.Hash, nil
}

func (f *fakeTxs) BuildCreate(ctx context.Context, wasmHash string, args []domain.Arg, signer config.Signer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, wasmHash)
	f.signers = append(f.signers, signer.Name)
	f.lastArg = args
	return "create:" + wasmHash, nil
}

func (f *fakeTxs) BuildInvoke(ctx context.Context, contractID, method string, args []domain.Arg, signer config.Signer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invokes = append(f.invokes, contractID+"."+method)
	f.signers = append(f.signers, signer.Name)
	f.lastArg = args
	return "invoke:" + contractID + ":" + method, nil
}

func (f *fakeTxs) Prepare(ctx context.Context, envelope string) (string, error) {
	return "prepared:" + envelope, nil
}

func (f *fakeTxs) Sign(ctx context.Context, envelope string, signer config.Signer) (string, error) {
	return "signed:" + envelope, nil
}

func (f *fakeTxs) DecodeValue(ctx context.Context, xdr string) (json.RawMessage, error) {
	if f.decode != nil {
		return f.decode(xdr)
	}
	switch {
	case strings.HasPrefix(xdr, "ret-create"):
		return json.RawMessage(`{"address":"` + testDeployed + `"}`), nil
	case strings.HasPrefix(xdr, "ret-upload:"):
		return json.RawMessage(`{"bytes":"` + strings.TrimPrefix(xdr, "ret-upload:") + `"}`), nil
	case strings.HasPrefix(xdr, "ret-invoke"):
		return json.RawMessage(`{"u32":7}`), nil
	}
	return nil, fmt.Errorf("cannot decode %s", xdr)
}

func (f *fakeTxs) Address(ctx context.Context, signer config.Signer) (string, error) {
	return testAccount, nil
}

// fakeRPC answers sends with PENDING and polls with SUCCESS unless overridden
type fakeRPC struct {
	mu        sync.Mutex
	sends     int
	gets      int
	simulates int
	envelopes map[string]string

	sendFunc     func(n int, envelope string) (*models.Submission, error)
	getFunc      func(n int, hash string) (*models.TransactionInfo, error)
	simulateFunc func(envelope string) (*models.Simulation, error)
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{envelopes: make(map[string]string)}
}

func (f *fakeRPC) SimulateTransaction(ctx context.Context, envelope string) (*models.Simulation, error) {
	f.mu.Lock()
	f.simulates++
	f.mu.Unlock()
	if f.simulateFunc != nil {
		return f.simulateFunc(envelope)
	}
	return &models.Simulation{ResultXDR: "ret-invoke", MinResourceFee: "100"}, nil
}

func (f *fakeRPC) SendTransaction(ctx context.Context, envelope string) (*models.Submission, error) {
	f.mu.Lock()
	f.sends++
	n := f.sends
	hash := fmt.Sprintf("%064x", n)
	f.envelopes[hash] = envelope
	f.mu.Unlock()

	if f.sendFunc != nil {
		return f.sendFunc(n, envelope)
	}
	return &models.Submission{Hash: hash, Status: models.SendStatusPending}, nil
}

func (f *fakeRPC) GetTransaction(ctx context.Context, hash string) (*models.TransactionInfo, error) {
	f.mu.Lock()
	f.gets++
	n := f.gets
	envelope := f.envelopes[hash]
	f.mu.Unlock()

	if f.getFunc != nil {
		return f.getFunc(n, hash)
	}

	info := &models.TransactionInfo{Hash: hash, Status: models.TransactionStatusSuccess, Ledger: 100}
	switch {
	case strings.Contains(envelope, "create:"):
		info.ReturnValueXDR = "ret-create"
	case strings.Contains(envelope, "upload:"):
		info.ReturnValueXDR = "ret-upload:" + envelope[strings.Index(envelope, "upload:")+len("upload:"):]
	case strings.Contains(envelope, "invoke:"):
		info.ReturnValueXDR = "ret-invoke"
	}
	return info, nil
}

func (f *fakeRPC) GetHealth(ctx context.Context) (*models.NetworkHealth, error) {
	return &models.NetworkHealth{Status: "healthy", LatestLedger: 100}, nil
}

// fakeFaucet records funded addresses
type fakeFaucet struct {
	funded []string
	err    error
}

func (f *fakeFaucet) Fund(ctx context.Context, address string) error {
	if f.err != nil {
		return f.err
	}
	f.funded = append(f.funded, address)
	return nil
}

// memoryRepo keeps registries in memory and records every save
type memoryRepo struct {
	registries map[domain.NetworkName]*models.Registry
	external   map[string]*models.Registry
	saves      int
	saveErr    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		registries: make(map[domain.NetworkName]*models.Registry),
		external:   make(map[string]*models.Registry),
	}
}

func (m *memoryRepo) Load(ctx context.Context, network domain.NetworkName) (*models.Registry, error) {
	if reg, ok := m.registries[network]; ok {
		return reg.Clone(), nil
	}
	return models.NewRegistry(network), nil
}

func (m *memoryRepo) LoadExternal(ctx context.Context, path string, network domain.NetworkName) (*models.Registry, error) {
	if reg, ok := m.external[path]; ok {
		return reg.Clone(), nil
	}
	return models.NewRegistry(network), nil
}

func (m *memoryRepo) Save(ctx context.Context, registry *models.Registry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.registries[registry.Network] = registry.Clone()
	return nil
}

// fakeConfirmer answers every prompt the same way
type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

type lifecycleFixture struct {
	cfg       *config.RuntimeConfig
	artifacts *fakeArtifacts
	txs       *fakeTxs
	rpc       *fakeRPC
	faucet    *fakeFaucet
	lifecycle *Lifecycle
}

func newLifecycleFixture(artifacts ...string) *lifecycleFixture {
	f := &lifecycleFixture{
		cfg:       newTestConfig(),
		artifacts: newFakeArtifacts(artifacts...),
		txs:       &fakeTxs{},
		rpc:       newFakeRPC(),
		faucet:    &fakeFaucet{},
	}
	f.lifecycle = NewLifecycle(f.cfg, f.artifacts, f.txs, f.rpc, f.faucet, NopProgress{}, discardLogger())
	return f
}

func (f *lifecycleFixture) admin() config.Signer {
	return f.cfg.Network.Admin
}
