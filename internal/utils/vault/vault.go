package vault

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
)

const k8sTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// VaultClient fetches resolver signing keys from a Vault KV v2 store when
// they are not provided through the environment.
type VaultClient struct {
	addr         string
	kvSecretPath string
	role         string
	token        string
}

func New(addr, kvSecretPath, role string) (*VaultClient, error) {
	vc := &VaultClient{
		addr:         addr,
		role:         role,
		kvSecretPath: kvSecretPath,
	}

	var err error
	vc.token, err = vc.login()
	if err != nil {
		return nil, err
	}
	return vc, nil
}

func (vc *VaultClient) login() (string, error) {
	k8sToken, err := os.ReadFile(k8sTokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read service account token: %v", err)
	}

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"jwt":  string(k8sToken),
			"role": vc.role,
		}).
		Post(fmt.Sprintf("%s/v1/auth/kubernetes/login", vc.addr))
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("vault authentication failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var result struct {
		Errors []string `json:"errors"`
		Auth   *struct {
			ClientToken string `json:"client_token"`
		} `json:"auth"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse vault response: %v", err)
	}
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("vault authentication error: %v", result.Errors)
	}
	if result.Auth == nil || result.Auth.ClientToken == "" {
		return "", fmt.Errorf("vault returned no client_token")
	}

	return result.Auth.ClientToken, nil
}

// GetKV reads one key from the configured KV v2 secret path.
func (vc *VaultClient) GetKV(secretKey string) (string, error) {
	resp, err := resty.New().R().
		SetHeader("X-Vault-Token", vc.token).
		Get(fmt.Sprintf("%s/v1/%s", vc.addr, vc.kvSecretPath))
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("vault KV get failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var result struct {
		Errors []string `json:"errors"`
		Data   *struct {
			Data map[string]interface{} `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse vault response: %v", err)
	}
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("vault KV get error: %v", result.Errors)
	}
	if result.Data == nil || result.Data.Data == nil {
		return "", fmt.Errorf("vault response missing KV data")
	}

	secret, ok := result.Data.Data[secretKey].(string)
	if !ok {
		return "", fmt.Errorf("secret key '%s' not found", secretKey)
	}
	return secret, nil
}
