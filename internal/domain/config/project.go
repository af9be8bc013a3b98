package config

// ProjectFile is the raw treb-soroban.toml structure
type ProjectFile struct {
	Project  ProjectConfig                `toml:"project"`
	Networks map[string]NetworkFileConfig `toml:"networks"`
}

// ProjectConfig holds project-wide paths
type ProjectConfig struct {
	RegistryDir string `toml:"registry_dir"`
	WasmDir     string `toml:"wasm_dir"`
	StellarBin  string `toml:"stellar_bin"`
}

// NetworkFileConfig is one [networks.<name>] table before env expansion
type NetworkFileConfig struct {
	Passphrase   string            `toml:"passphrase"`
	RPCURL       string            `toml:"rpc_url"`
	FriendbotURL string            `toml:"friendbot_url"`
	Admin        string            `toml:"admin"`
	Signers      map[string]string `toml:"signers"`
	External     map[string]string `toml:"external"`
	Assets       map[string]string `toml:"assets"`
	Strategies   StrategyConfig    `toml:"strategies"`
}

// DefaultProjectConfig returns the paths used when treb-soroban.toml omits them
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		RegistryDir: ".soroban",
		WasmDir:     "target/wasm32-unknown-unknown/release",
		StellarBin:  "stellar",
	}
}
