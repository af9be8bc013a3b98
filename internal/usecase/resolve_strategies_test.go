package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

func resolverRegistries() (*models.Registry, *models.Registry) {
	local := models.NewRegistry(domain.Testnet)
	local.SetContractID("soroswap_usdc", testAsset)

	external := models.NewRegistry(domain.Testnet)
	external.SetContractID("TestnetV2", testPool)
	external.SetContractID("BLND", testBlnd)
	return local, external
}

func TestStrategyResolver(t *testing.T) {
	resolver := NewStrategyResolver()
	network := newTestConfig().Network

	t.Run("hodl resolves to an empty allocation list", func(t *testing.T) {
		local, external := resolverRegistries()

		plan, err := resolver.Resolve("usdc", []string{"HODL"}, local, external, network)
		require.NoError(t, err)

		assert.Equal(t, testAsset, plan.AssetAddress)
		assert.Equal(t, "soroswap_usdc", plan.AssetKey)
		require.Len(t, plan.Strategies, 1)
		strategy := plan.Strategies[0]
		assert.Equal(t, "usdc_hodl_strategy", strategy.Name)
		assert.Equal(t, "hodl_strategy", strategy.WasmKey)
		assert.Equal(t, domain.HodlArgs{}, strategy.InitArgs)
		assert.Empty(t, strategy.InitArgs.Encode())
	})

	t.Run("fixed apr uses the network rate", func(t *testing.T) {
		local, _ := resolverRegistries()

		plan, err := resolver.Resolve("USDC", []string{"fixed_apr"}, local, nil, network)
		require.NoError(t, err)
		require.Len(t, plan.Strategies, 1)
		assert.Equal(t, "usdc_fixed_apr_strategy", plan.Strategies[0].Name)
		assert.Equal(t, "fixed_apr_strategy", plan.Strategies[0].WasmKey)
		assert.Equal(t, domain.FixedAprArgs{RateBps: 1000}, plan.Strategies[0].InitArgs)
	})

	t.Run("blend reads the external registry", func(t *testing.T) {
		local, external := resolverRegistries()

		plan, err := resolver.Resolve("usdc", []string{"BLEND"}, local, external, network)
		require.NoError(t, err)
		assert.Equal(t, domain.BlendArgs{Pool: testPool, RewardToken: testBlnd}, plan.Strategies[0].InitArgs)
	})

	t.Run("blend without pool entry", func(t *testing.T) {
		local, _ := resolverRegistries()
		external := models.NewRegistry(domain.Testnet)
		external.SetContractID("BLND", testBlnd)

		_, err := resolver.Resolve("usdc", []string{"BLEND"}, local, external, network)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingDependency)

		var missing domain.MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "TestnetV2", missing.Entry)
		assert.Equal(t, "testnet", missing.Network)
		assert.Equal(t, "blend", missing.Registry)
	})

	t.Run("blend without any external registry", func(t *testing.T) {
		local, _ := resolverRegistries()

		_, err := resolver.Resolve("usdc", []string{"BLEND"}, local, nil, network)
		assert.ErrorIs(t, err, domain.ErrMissingDependency)
	})

	t.Run("unknown asset", func(t *testing.T) {
		local, external := resolverRegistries()

		_, err := resolver.Resolve("eurc", []string{"HODL"}, local, external, network)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "eurc")
	})

	t.Run("unknown kind", func(t *testing.T) {
		local, external := resolverRegistries()

		_, err := resolver.Resolve("usdc", []string{"HODL", "LEVERAGED"}, local, external, network)
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("no kinds", func(t *testing.T) {
		local, external := resolverRegistries()

		_, err := resolver.Resolve("usdc", nil, local, external, network)
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("keeps request order and collapses duplicates", func(t *testing.T) {
		local, external := resolverRegistries()

		plan, err := resolver.Resolve("usdc", []string{"blend", "hodl", "BLEND"}, local, external, network)
		require.NoError(t, err)
		require.Len(t, plan.Strategies, 2)
		assert.Equal(t, "usdc_blend_strategy", plan.Strategies[0].Name)
		assert.Equal(t, "usdc_hodl_strategy", plan.Strategies[1].Name)
	})

	t.Run("does not mutate registries", func(t *testing.T) {
		local, external := resolverRegistries()
		localBefore, externalBefore := local.Clone(), external.Clone()

		_, err := resolver.Resolve("usdc", []string{"HODL", "FIXED_APR", "BLEND"}, local, external, network)
		require.NoError(t, err)
		assert.Equal(t, localBefore, local)
		assert.Equal(t, externalBefore, external)
	})
}

func TestStrategyKindsOrDefault(t *testing.T) {
	assert.Equal(t, []string{"HODL", "FIXED_APR", "BLEND"}, StrategyKindsOrDefault(nil))
	assert.Equal(t, []string{"hodl"}, StrategyKindsOrDefault([]string{"hodl"}))
}
