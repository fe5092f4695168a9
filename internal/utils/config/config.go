package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/0xGeorgii/interstellar/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Ethereum    EthereumConfig
	Stellar     StellarConfig
	Swap        SwapConfig
	Vault       VaultConfig
	UptimeURL   string
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type EthereumConfig struct {
	RPCEndpoint        string
	EscrowContractAddr string
	ChainID            int64
	ResolverPrivateKey string
	Confirmations      uint64
}

type StellarConfig struct {
	SorobanRPCURL     string
	HorizonURL        string
	EscrowContractID  string
	ResolverSecret    string
	NetworkPassphrase string
	Confirmations     uint64
}

// SwapConfig carries the protocol parameters of the escrow pair. The
// destination timelock must not exceed the source timelock; the resolver
// rejects every order while the pair is inverted.
type SwapConfig struct {
	SlippageBps         int64
	SrcTimelock         time.Duration
	DstTimelock         time.Duration
	WithdrawalDelay     time.Duration
	SafetyDepositAmount string
	PollInterval        string
}

type VaultConfig struct {
	Addr         string
	KVSecretPath string
	Role         string
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// will not override env variables that already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Port:           envVarOrDefault("API_PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Ethereum: EthereumConfig{
			RPCEndpoint:        os.Getenv("ETHEREUM_RPC_ENDPOINT"),
			EscrowContractAddr: os.Getenv("ETHEREUM_ESCROW_CONTRACT_ADDR"),
			ChainID:            int64(envVarAtoiOrDefault("ETHEREUM_CHAIN_ID", 11155111)),
			ResolverPrivateKey: os.Getenv("ETHEREUM_RESOLVER_PRIVATE_KEY"),
			Confirmations:      uint64(envVarAtoiOrDefault("ETHEREUM_CONFIRMATIONS", 3)),
		},
		Stellar: StellarConfig{
			SorobanRPCURL:     os.Getenv("STELLAR_SOROBAN_RPC_URL"),
			HorizonURL:        os.Getenv("STELLAR_HORIZON_URL"),
			EscrowContractID:  os.Getenv("STELLAR_ESCROW_CONTRACT_ID"),
			ResolverSecret:    os.Getenv("STELLAR_RESOLVER_SECRET"),
			NetworkPassphrase: envVarOrDefault("STELLAR_NETWORK_PASSPHRASE", "Test SDF Network ; September 2015"),
			Confirmations:     uint64(envVarAtoiOrDefault("STELLAR_CONFIRMATIONS", 1)),
		},
		Swap: SwapConfig{
			SlippageBps:         int64(envVarAtoiOrDefault("SWAP_SLIPPAGE_BPS", 500)),
			SrcTimelock:         envVarDurationOrDefault("SWAP_SRC_TIMELOCK", 2*time.Hour),
			DstTimelock:         envVarDurationOrDefault("SWAP_DST_TIMELOCK", time.Hour),
			WithdrawalDelay:     envVarDurationOrDefault("SWAP_WITHDRAWAL_DELAY", time.Minute),
			SafetyDepositAmount: envVarOrDefault("SWAP_SAFETY_DEPOSIT_AMOUNT", "0"),
			PollInterval:        envVarOrDefault("SWAP_POLL_INTERVAL", "@every 15s"),
		},
		Vault: VaultConfig{
			Addr:         os.Getenv("VAULT_ADDR"),
			KVSecretPath: os.Getenv("VAULT_KV_SECRET_PATH"),
			Role:         os.Getenv("VAULT_ROLE"),
		},
		UptimeURL: os.Getenv("UPTIME_WEBHOOK_URL"),
	}
}

func envVarOrDefault(envName, fallback string) string {
	value := os.Getenv(envName)
	if value == "" {
		return fallback
	}

	return value
}

func envVarAtoiOrDefault(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}

	return value
}

func envVarDurationOrDefault(envName string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envName))
	if err != nil {
		return fallback
	}

	return value
}
