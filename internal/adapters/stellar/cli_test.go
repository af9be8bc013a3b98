package stellar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

const (
	testSeed     = "SAAQEAYEAUDAOCAJBIFQYDIOB4IBCEQTCQKRMFYYDENBWHA5DYPSBF5K"
	testSeedAddr = "GB43KVROR7TFJ6KAPCYRF2FJROTZAH4FHLTJLPWX4DRZCC5NASLGITR6"
	testContract = "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC"
	testAccount  = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
)

type recordedRun struct {
	args  []string
	env   []string
	stdin string
}

// fakeRunner records invocations and answers from a queue
type fakeRunner struct {
	runs    []recordedRun
	outputs []string
	stderr  string
	err     error
}

func (f *fakeRunner) run(ctx context.Context, dir, bin string, args, env []string, stdin string) (string, string, error) {
	f.runs = append(f.runs, recordedRun{args: args, env: env, stdin: stdin})
	if f.err != nil {
		return "", f.stderr, f.err
	}
	out := ""
	if len(f.outputs) > 0 {
		out, f.outputs = f.outputs[0], f.outputs[1:]
	}
	return out + "\n", "", nil
}

func (r recordedRun) envValue(key string) (string, bool) {
	for _, kv := range r.env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

func newTestCLI(runner *fakeRunner) *CLI {
	network := &config.Network{
		Name:       domain.Testnet,
		Passphrase: "Test SDF Network ; September 2015",
		RPCURL:     "https://soroban-testnet.stellar.org",
		Admin:      config.Signer{Name: "admin", Source: testSeed},
	}
	cli := NewCLI("", "/project", network, slog.New(slog.NewTextHandler(io.Discard, nil)))
	cli.run = runner.run
	return cli
}

func TestCLI_BuildCommands(t *testing.T) {
	ctx := context.Background()
	signer := config.Signer{Name: "deployer", Source: "alice"}

	t.Run("upload", func(t *testing.T) {
		runner := &fakeRunner{outputs: []string{"AAAAupload"}}
		envelope, err := newTestCLI(runner).BuildUpload(ctx, &models.Artifact{Path: "/wasm/vault.wasm"}, signer)
		require.NoError(t, err)
		assert.Equal(t, "AAAAupload", envelope)

		require.Len(t, runner.runs, 1)
		assert.Equal(t, []string{"contract", "upload", "--wasm", "/wasm/vault.wasm", "--build-only"}, runner.runs[0].args)
		source, _ := runner.runs[0].envValue("STELLAR_ACCOUNT")
		assert.Equal(t, "alice", source)
		rpcURL, _ := runner.runs[0].envValue("STELLAR_RPC_URL")
		assert.Equal(t, "https://soroban-testnet.stellar.org", rpcURL)
	})

	t.Run("deploy with constructor args", func(t *testing.T) {
		runner := &fakeRunner{}
		args := []domain.Arg{
			{Name: "asset", Value: domain.Address(testContract)},
			{Name: "init_args", Value: domain.Vec(domain.U32(1000))},
		}
		_, err := newTestCLI(runner).BuildCreate(ctx, "abcd", args, signer)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"contract", "deploy", "--wasm-hash", "abcd", "--build-only", "--",
			"--asset", testContract, "--init_args", "[1000]",
		}, runner.runs[0].args)
	})

	t.Run("deploy without args has no separator", func(t *testing.T) {
		runner := &fakeRunner{}
		_, err := newTestCLI(runner).BuildCreate(ctx, "abcd", nil, signer)
		require.NoError(t, err)
		assert.NotContains(t, runner.runs[0].args, "--")
	})

	t.Run("invoke", func(t *testing.T) {
		runner := &fakeRunner{}
		args := []domain.Arg{{Name: "amount", Value: domain.I128("5")}}
		_, err := newTestCLI(runner).BuildInvoke(ctx, testContract, "deposit", args, signer)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"contract", "invoke", "--id", testContract, "--build-only", "--", "deposit", "--amount", "5",
		}, runner.runs[0].args)
	})
}

func TestCLI_SecretsStayOutOfArgs(t *testing.T) {
	runner := &fakeRunner{outputs: []string{"signed"}}
	cli := newTestCLI(runner)
	secret := config.Signer{Name: "admin", Source: testSeed}

	signed, err := cli.Sign(context.Background(), "unsigned", secret)
	require.NoError(t, err)
	assert.Equal(t, "signed", signed)

	run := runner.runs[0]
	assert.Equal(t, []string{"tx", "sign"}, run.args)
	assert.Equal(t, "unsigned", run.stdin)
	key, ok := run.envValue("STELLAR_SIGN_WITH_KEY")
	require.True(t, ok)
	assert.Equal(t, testSeed, key)
	for _, arg := range run.args {
		assert.NotContains(t, arg, testSeed)
	}
}

func TestCLI_Prepare(t *testing.T) {
	runner := &fakeRunner{outputs: []string{"assembled"}}
	out, err := newTestCLI(runner).Prepare(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, "assembled", out)
	assert.Equal(t, []string{"tx", "simulate"}, runner.runs[0].args)
	assert.Equal(t, "raw", runner.runs[0].stdin)
}

func TestCLI_DecodeValue(t *testing.T) {
	runner := &fakeRunner{outputs: []string{`{"address":"` + testContract + `"}`}}
	value, err := newTestCLI(runner).DecodeValue(context.Background(), "AAAAEg==")
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"`+testContract+`"}`, string(value))
	assert.Equal(t, "AAAAEg==", runner.runs[0].stdin)

	runner = &fakeRunner{outputs: []string{"not json"}}
	_, err = newTestCLI(runner).DecodeValue(context.Background(), "AAAA")
	assert.Error(t, err)
}

func TestCLI_ReturnValue(t *testing.T) {
	runner := &fakeRunner{outputs: []string{
		`{"v3":{"soroban_meta":{"events":[],"return_value":{"u32":7},"diagnostic_events":[]}}}`,
		"AAAAAwAAAAc=",
	}}

	value, err := newTestCLI(runner).ReturnValue(context.Background(), "meta")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAwAAAAc=", value)
	require.Len(t, runner.runs, 2)
	assert.Equal(t, `{"u32":7}`, runner.runs[1].stdin)
	assert.Contains(t, runner.runs[1].args, "encode")

	runner = &fakeRunner{outputs: []string{`{"v3":{"soroban_meta":null}}`}}
	_, err = newTestCLI(runner).ReturnValue(context.Background(), "meta")
	assert.Error(t, err)
}

func TestCLI_Address(t *testing.T) {
	ctx := context.Background()

	t.Run("public key passes through", func(t *testing.T) {
		runner := &fakeRunner{}
		address, err := newTestCLI(runner).Address(ctx, config.Signer{Name: "x", Source: testAccount})
		require.NoError(t, err)
		assert.Equal(t, testAccount, address)
		assert.Empty(t, runner.runs)
	})

	t.Run("secret seed derives locally", func(t *testing.T) {
		runner := &fakeRunner{}
		address, err := newTestCLI(runner).Address(ctx, config.Signer{Name: "admin", Source: testSeed})
		require.NoError(t, err)
		assert.Equal(t, testSeedAddr, address)
		assert.Empty(t, runner.runs)
	})

	t.Run("identity name asks the cli", func(t *testing.T) {
		runner := &fakeRunner{outputs: []string{testAccount}}
		address, err := newTestCLI(runner).Address(ctx, config.Signer{Name: "treasury", Source: "bob"})
		require.NoError(t, err)
		assert.Equal(t, testAccount, address)
		assert.Equal(t, []string{"keys", "address", "bob"}, runner.runs[0].args)
	})

	t.Run("unknown identity", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "error: identity bob not found"}
		_, err := newTestCLI(runner).Address(ctx, config.Signer{Name: "treasury", Source: "bob"})
		assert.ErrorIs(t, err, domain.ErrConfig)
	})
}

func TestCLI_ErrorClassification(t *testing.T) {
	ctx := context.Background()
	signer := config.Signer{Name: "admin", Source: "alice"}

	tests := []struct {
		name      string
		stderr    string
		err       error
		transient bool
		config    bool
	}{
		{"rate limited", "error: Networking or low-level protocol error: HTTP error: 429 Too Many Requests", errors.New("exit status 1"), true, false},
		{"timeout", "error: request timed out", errors.New("exit status 1"), true, false},
		{"contract error", "error: HostError: Error(Contract, #3)", errors.New("exit status 1"), false, false},
		{"missing binary", "", exec.ErrNotFound, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err, stderr: tt.stderr}
			_, err := newTestCLI(runner).BuildUpload(ctx, &models.Artifact{Path: "x.wasm"}, signer)
			require.Error(t, err)
			assert.Equal(t, tt.transient, errors.Is(err, domain.ErrTransient))
			assert.Equal(t, tt.config, errors.Is(err, domain.ErrConfig))
			if tt.stderr != "" {
				assert.Contains(t, err.Error(), "stellar contract upload")
			}
		})
	}
}

func TestCLI_BuildEnvOverridesParent(t *testing.T) {
	t.Setenv("STELLAR_NETWORK", "mainnet")
	t.Setenv("STELLAR_ACCOUNT", "someone-else")

	cli := newTestCLI(&fakeRunner{})
	env := recordedRun{env: cli.buildEnv(map[string]string{"STELLAR_ACCOUNT": "alice"})}

	_, hasNetwork := env.envValue("STELLAR_NETWORK")
	assert.False(t, hasNetwork)
	account, _ := env.envValue("STELLAR_ACCOUNT")
	assert.Equal(t, "alice", account)
	passphrase, _ := env.envValue("STELLAR_NETWORK_PASSPHRASE")
	assert.Equal(t, "Test SDF Network ; September 2015", passphrase)
}

func TestStrkeySeedRejectsCorruption(t *testing.T) {
	corrupted := testSeed[:len(testSeed)-1] + "A"
	_, err := accountFromSeed(corrupted)
	assert.Error(t, err)

	_, err = accountFromSeed(testAccount)
	assert.Error(t, err)
}
