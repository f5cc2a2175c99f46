package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SecretSource determines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto picks vault when a vault name is configured, environment otherwise
	SourceAuto SecretSource = "auto"
)

// ProviderConfig configures the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Provider resolves secrets from the configured source
type Provider struct {
	source SecretSource
	vault  *VaultClient
	logger *zap.Logger
}

// NewProvider creates a secrets provider. When the resolved source is
// vault, the vault client is initialized eagerly so credential problems
// surface at startup.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		if cfg.VaultName != "" {
			source = SourceVault
		} else {
			source = SourceEnvironment
		}
	}

	p := &Provider{
		source: source,
		logger: logger,
	}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name is required for vault secret source")
		}
		vault, err := NewVaultClient(cfg.VaultName, cfg.CacheEnabled, cfg.CacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault client: %w", err)
		}
		p.vault = vault
	}

	logger.Info("secrets provider initialized", zap.String("source", string(source)))
	return p, nil
}

// GetSecret retrieves a secret by name. For the environment source, the
// secret name is converted to an env var name (uppercased, dashes to
// underscores).
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceVault:
		return p.vault.GetSecret(ctx, name)
	default:
		envName := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		value := os.Getenv(envName)
		if value == "" {
			return "", fmt.Errorf("secret %s not found in environment (looked for %s)", name, envName)
		}
		return value, nil
	}
}

// GetSecretWithDefault retrieves a secret, returning the fallback when
// the secret cannot be resolved.
func (p *Provider) GetSecretWithDefault(ctx context.Context, name, fallback string) string {
	value, err := p.GetSecret(ctx, name)
	if err != nil {
		return fallback
	}
	return value
}

// GetSecretOrEnv retrieves a secret from the vault, falling back to the
// given environment variable when the vault lookup fails. Useful during
// migration of individual secrets into the vault.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envVar string) (string, error) {
	if p.source == SourceVault {
		value, err := p.vault.GetSecret(ctx, name)
		if err == nil && value != "" {
			return value, nil
		}
		p.logger.Debug("vault lookup failed, falling back to environment",
			zap.String("secret", name),
			zap.String("envVar", envVar))
	}
	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("secret %s not found in vault or environment variable %s", name, envVar)
	}
	return value, nil
}

// GetSecretOrEnvWithDefault is GetSecretOrEnv with a fallback value.
func (p *Provider) GetSecretOrEnvWithDefault(ctx context.Context, name, envVar, fallback string) string {
	value, err := p.GetSecretOrEnv(ctx, name, envVar)
	if err != nil {
		return fallback
	}
	return value
}

// Source returns the resolved secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled reports whether secrets are served from Key Vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
