package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/fs"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/progress"
	"github.com/trebuchet-org/treb-soroban/internal/app"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

const (
	vaultID   = "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC"
	factoryID = "CCJZ5DGASBWQXR5MPFCJXMBI333XE5U3FSJTNQU7RIKE3P5GN2K2WYD5"
)

type staticResolver map[domain.NetworkName]*config.Network

func (r staticResolver) Names() []domain.NetworkName {
	return []domain.NetworkName{domain.Standalone, domain.Testnet}
}

func (r staticResolver) Resolve(name domain.NetworkName) (*config.Network, error) {
	network, ok := r[name]
	if !ok {
		return nil, errors.New("no rpc_url configured")
	}
	return network, nil
}

// testApp builds an app over a temporary registry holding two contracts
func testApp(t *testing.T, jsonOutput bool) *app.App {
	t.Helper()

	testnet := &config.Network{
		Name:         domain.Testnet,
		RPCURL:       "https://soroban-testnet.stellar.org",
		FriendbotURL: "https://friendbot.stellar.org",
		External:     map[string]string{},
	}
	cfg := &config.RuntimeConfig{Network: testnet, JSON: jsonOutput}

	store := fs.NewRegistryStore(t.TempDir())
	reg := models.NewRegistry(domain.Testnet)
	reg.SetWasmHash("vault", "5d41402abc4b2a76b9719d911017c592aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	reg.SetContractID("vault", vaultID)
	reg.SetContractID("factory", factoryID)
	require.NoError(t, store.Save(context.Background(), reg))

	return &app.App{
		Config:       cfg,
		Progress:     progress.NewNopSink(),
		ShowRegistry: usecase.NewShowRegistry(cfg, store),
		ListNetworks: usecase.NewListNetworks(cfg, staticResolver{domain.Testnet: testnet}, nil),
	}
}

func runCmd(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()

	original := initApp
	initApp = func(cmd *cobra.Command) (*app.App, error) { return a, nil }
	t.Cleanup(func() { initApp = original })

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmdSkipsApp(t *testing.T) {
	original := initApp
	initApp = func(cmd *cobra.Command) (*app.App, error) {
		t.Fatal("version must not load project configuration")
		return nil, nil
	}
	t.Cleanup(func() { initApp = original })

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "treb-soroban version")
}

func TestRegistryShow(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := runCmd(t, testApp(t, false), "registry", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "local registry (testnet)")
		assert.Contains(t, out, vaultID)
		assert.Contains(t, out, "Foreign")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCmd(t, testApp(t, true), "registry", "show")
		require.NoError(t, err)

		var result usecase.ShowRegistryResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, domain.Testnet, result.Network)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "factory", result.Entries[0].Name)
		assert.Equal(t, models.StateDeployed, result.Entries[1].State)
	})

	t.Run("unknown external registry", func(t *testing.T) {
		_, err := runCmd(t, testApp(t, false), "registry", "show", "--external", "blend")
		require.Error(t, err)
		assert.Equal(t, domain.ExitConfig, domain.ExitCode(err))
	})
}

func TestNetworksCmd(t *testing.T) {
	out, err := runCmd(t, testApp(t, true), "networks", "--skip-health")
	require.NoError(t, err)

	var networks []networkJSON
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	require.Len(t, networks, 2)
	assert.Equal(t, "standalone", networks[0].Name)
	assert.NotEmpty(t, networks[0].Error)
	assert.Equal(t, "testnet", networks[1].Name)
	assert.True(t, networks[1].HasFriendbot)
}

func TestDeployCmdArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"malformed arg", []string{"deploy", "vault", "--arg", "novalue"}},
		{"duplicate arg", []string{"deploy", "vault", "--arg", "a=1", "--arg", "a=2"}},
		{"init-arg without init", []string{"deploy", "vault", "--init-arg", "admin=@admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, testApp(t, false), tt.args...)
			require.Error(t, err)
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	a := testApp(t, false)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	err := withSuggestion(cmd, a, domain.NotFoundError{Network: "testnet", Name: "vaul", Field: "contractId"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean vault?")

	other := errors.New("boom")
	assert.Same(t, other, withSuggestion(cmd, a, other))
}

// strategiesApp builds an app whose network has a local usdc asset and a
// blend registry holding the pool and reward token
func strategiesApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()

	blendPath := filepath.Join(dir, "blend.json")
	require.NoError(t, os.WriteFile(blendPath, []byte(`{"ids": {"TestnetV2": "`+vaultID+`", "BLND": "`+factoryID+`"}, "hashes": {}}`), 0644))

	testnet := &config.Network{
		Name:     domain.Testnet,
		External: map[string]string{"blend": blendPath},
		Assets:   map[string]string{"usdc": "soroswap_usdc"},
		Strategies: config.StrategyConfig{
			FixedAprBps:   1000,
			BlendRegistry: "blend",
			BlendPoolKey:  "TestnetV2",
			BlendTokenKey: "BLND",
		},
	}
	cfg := &config.RuntimeConfig{Network: testnet, JSON: true}

	store := fs.NewRegistryStore(filepath.Join(dir, ".soroban"))
	reg := models.NewRegistry(domain.Testnet)
	reg.SetContractID("soroswap_usdc", factoryID)
	require.NoError(t, store.Save(context.Background(), reg))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &app.App{
		Config:           cfg,
		Progress:         progress.NewNopSink(),
		ShowRegistry:     usecase.NewShowRegistry(cfg, store),
		DeployStrategies: usecase.NewDeployStrategies(cfg, store, usecase.NewStrategyResolver(), nil, nil, log),
	}
}

func TestStrategiesResolveCmd(t *testing.T) {
	type resolved struct {
		AssetKey   string
		Strategies []struct {
			Name    string
			WasmKey string
		}
	}

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "all kinds without --kind",
			args:     []string{"strategies", "resolve", "usdc"},
			expected: []string{"usdc_hodl_strategy", "usdc_fixed_apr_strategy", "usdc_blend_strategy"},
		},
		{
			name:     "selected kinds",
			args:     []string{"strategies", "resolve", "usdc", "--kind", "hodl", "--kind", "blend"},
			expected: []string{"usdc_hodl_strategy", "usdc_blend_strategy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, strategiesApp(t), tt.args...)
			require.NoError(t, err)

			var plan resolved
			require.NoError(t, json.Unmarshal([]byte(out), &plan))
			assert.Equal(t, "soroswap_usdc", plan.AssetKey)

			var names []string
			for _, s := range plan.Strategies {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	t.Run("unknown asset", func(t *testing.T) {
		_, err := runCmd(t, strategiesApp(t), "strategies", "resolve", "eurc")
		require.Error(t, err)
		assert.Equal(t, domain.ExitNotFound, domain.ExitCode(err))
	})
}
