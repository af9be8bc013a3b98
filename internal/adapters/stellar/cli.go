package stellar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// runFunc executes bin and returns its stdout and stderr
type runFunc func(ctx context.Context, dir, bin string, args, env []string, stdin string) (string, string, error)

// CLI builds, prepares, signs and decodes transactions with the stellar CLI.
// Signing material only ever travels through the child's environment.
type CLI struct {
	bin     string
	dir     string
	network *config.Network
	run     runFunc
	log     *slog.Logger
}

// NewCLI creates a CLI adapter for network
func NewCLI(bin, dir string, network *config.Network, log *slog.Logger) *CLI {
	if bin == "" {
		bin = "stellar"
	}
	return &CLI{
		bin:     bin,
		dir:     dir,
		network: network,
		run:     execRun,
		log:     log.With("component", "stellar"),
	}
}

// NewCLIAdapter creates the adapter for the active network
func NewCLIAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *CLI {
	return NewCLI(cfg.StellarBin, cfg.ProjectRoot, cfg.Network, log)
}

func execRun(ctx context.Context, dir, bin string, args, env []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = env
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// buildEnv returns the child environment: the parent's, minus any stellar
// network selection, plus the active network and the given overrides.
func (c *CLI) buildEnv(overrides map[string]string) []string {
	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "STELLAR_NETWORK", "STELLAR_RPC_URL", "STELLAR_NETWORK_PASSPHRASE",
			"STELLAR_ACCOUNT", "STELLAR_SIGN_WITH_KEY":
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"STELLAR_RPC_URL="+c.network.RPCURL,
		"STELLAR_NETWORK_PASSPHRASE="+c.network.Passphrase,
		"STELLAR_NO_UPDATE_CHECK=1",
	)
	for key, value := range overrides {
		env = append(env, key+"="+value)
	}
	return env
}

func sourceEnv(signer config.Signer) map[string]string {
	return map[string]string{"STELLAR_ACCOUNT": signer.Source}
}

// exec runs one stellar subcommand and returns its trimmed stdout
func (c *CLI) exec(ctx context.Context, args []string, overrides map[string]string, stdin string) (string, error) {
	c.log.Debug("running stellar", "args", strings.Join(args, " "))

	stdout, stderr, err := c.run(ctx, c.dir, c.bin, args, c.buildEnv(overrides), stdin)
	if err != nil {
		return "", c.classify(ctx, args, err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

// classify turns a failed invocation into a domain error. Rate limiting and
// network timeouts reported by the CLI are transient.
func (c *CLI) classify(ctx context.Context, args []string, err error, stderr string) error {
	command := "stellar " + strings.Join(subcommand(args), " ")
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", command, ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s not found on PATH (install the stellar CLI or set stellar_bin)", domain.ErrConfig, c.bin)
	}

	detail := lastLines(stderr, 3)
	if isTransientOutput(stderr) {
		return fmt.Errorf("%w: %s: %s", domain.ErrTransient, command, detail)
	}
	if detail == "" {
		return fmt.Errorf("%s: %w", command, err)
	}
	return fmt.Errorf("%s: %s", command, detail)
}

var transientMarkers = []string{
	"rate limit",
	"too many requests",
	"timed out",
	"timeout",
	"connection reset",
	"connection refused",
	"502 bad gateway",
	"503 service unavailable",
	"504 gateway timeout",
	"try_again_later",
}

func isTransientOutput(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range transientMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func subcommand(args []string) []string {
	var out []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") || len(out) == 2 {
			break
		}
		out = append(out, arg)
	}
	return out
}

func lastLines(output string, n int) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

// argFlags renders named arguments as --name value pairs
func argFlags(args []domain.Arg) ([]string, error) {
	flags := make([]string, 0, len(args)*2)
	for _, arg := range args {
		value, err := arg.Value.CLIValue()
		if err != nil {
			return nil, fmt.Errorf("%w: argument %s: %v", domain.ErrConfig, arg.Name, err)
		}
		flags = append(flags, "--"+arg.Name, value)
	}
	return flags, nil
}

func uploadArgs(artifact *models.Artifact) []string {
	return []string{"contract", "upload", "--wasm", artifact.Path, "--build-only"}
}

func deployArgs(wasmHash string, args []domain.Arg) ([]string, error) {
	cmd := []string{"contract", "deploy", "--wasm-hash", wasmHash, "--build-only"}
	if len(args) == 0 {
		return cmd, nil
	}
	flags, err := argFlags(args)
	if err != nil {
		return nil, err
	}
	return append(append(cmd, "--"), flags...), nil
}

func invokeArgs(contractID, method string, args []domain.Arg) ([]string, error) {
	flags, err := argFlags(args)
	if err != nil {
		return nil, err
	}
	cmd := []string{"contract", "invoke", "--id", contractID, "--build-only", "--", method}
	return append(cmd, flags...), nil
}

// BuildUpload builds an unsigned upload transaction for artifact
func (c *CLI) BuildUpload(ctx context.Context, artifact *models.Artifact, signer config.Signer) (string, error) {
	return c.exec(ctx, uploadArgs(artifact), sourceEnv(signer), "")
}

// BuildCreate builds an unsigned create-contract transaction
func (c *CLI) BuildCreate(ctx context.Context, wasmHash string, args []domain.Arg, signer config.Signer) (string, error) {
	cmd, err := deployArgs(wasmHash, args)
	if err != nil {
		return "", err
	}
	return c.exec(ctx, cmd, sourceEnv(signer), "")
}

// BuildInvoke builds an unsigned contract call
func (c *CLI) BuildInvoke(ctx context.Context, contractID, method string, args []domain.Arg, signer config.Signer) (string, error) {
	cmd, err := invokeArgs(contractID, method, args)
	if err != nil {
		return "", err
	}
	return c.exec(ctx, cmd, sourceEnv(signer), "")
}

// Prepare simulates the envelope and returns it with footprint and fees attached
func (c *CLI) Prepare(ctx context.Context, envelope string) (string, error) {
	return c.exec(ctx, []string{"tx", "simulate"}, sourceEnv(c.network.Admin), envelope)
}

// Sign signs the envelope with signer
func (c *CLI) Sign(ctx context.Context, envelope string, signer config.Signer) (string, error) {
	return c.exec(ctx, []string{"tx", "sign"}, map[string]string{"STELLAR_SIGN_WITH_KEY": signer.Source}, envelope)
}

// DecodeValue renders an ScVal XDR as JSON
func (c *CLI) DecodeValue(ctx context.Context, xdr string) (json.RawMessage, error) {
	out, err := c.exec(ctx, []string{"xdr", "decode", "--type", "ScVal", "--input", "single-base64", "--output", "json"}, nil, xdr)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("xdr decode returned invalid JSON: %q", out)
	}
	return json.RawMessage(out), nil
}

// ReturnValue extracts the soroban return value from a transaction result
// meta and re-encodes it as ScVal XDR.
func (c *CLI) ReturnValue(ctx context.Context, resultMetaXDR string) (string, error) {
	meta, err := c.exec(ctx, []string{"xdr", "decode", "--type", "TransactionMeta", "--input", "single-base64", "--output", "json"}, nil, resultMetaXDR)
	if err != nil {
		return "", err
	}

	value := gjson.Get(meta, "v4.soroban_meta.return_value")
	if !value.Exists() {
		value = gjson.Get(meta, "v3.soroban_meta.return_value")
	}
	if !value.Exists() {
		return "", errors.New("result meta has no soroban return value")
	}

	return c.exec(ctx, []string{"xdr", "encode", "--type", "ScVal", "--input", "json", "--output", "single-base64"}, nil, value.Raw)
}

// Address returns the public key of signer
func (c *CLI) Address(ctx context.Context, signer config.Signer) (string, error) {
	switch {
	case domain.IsAccountAddress(signer.Source):
		return signer.Source, nil
	case signer.IsSecret():
		address, err := accountFromSeed(signer.Source)
		if err != nil {
			return "", fmt.Errorf("%w: signer %s: %v", domain.ErrConfig, signer.Name, err)
		}
		return address, nil
	}

	out, err := c.exec(ctx, []string{"keys", "address", signer.Source}, nil, "")
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve address of signer %s: %v", domain.ErrConfig, signer.Name, err)
	}
	if !domain.IsAccountAddress(out) {
		return "", fmt.Errorf("%w: signer %s resolved to %q, not an account address", domain.ErrConfig, signer.Name, out)
	}
	return out, nil
}

var _ usecase.TransactionBuilder = (*CLI)(nil)
